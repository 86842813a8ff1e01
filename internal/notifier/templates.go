package notifier

import (
	"fmt"
	"strings"
	"time"

	"backoffice/internal/models"
)

// Rendered is a notification ready for delivery
type Rendered struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// Notification kinds
const (
	KindNewOrder        = "new_order"
	KindPaymentReceived = "payment_received"
	KindDelivered       = "delivered"
)

const dateLayout = "02-01-2006 15:04:05"

// RenderNewOrder renders the new-order notification sent to the admin
func RenderNewOrder(snap models.OrderSnapshot) Rendered {
	subject := fmt.Sprintf("New Order #%d", snap.OrderID)

	rows := [][2]string{
		{"Order ID", fmt.Sprintf("#%d", snap.OrderID)},
		{"Customer", snap.CustomerName},
		{"Phone", snap.CustomerPhone},
		{"Email", snap.CustomerEmail},
		{"Address", snap.CustomerAddress},
		{"Item", fmt.Sprintf("%s (%s)", snap.ItemName, snap.ItemKind)},
		{"Quantity", fmt.Sprintf("%d", snap.Quantity)},
		{"Total", "₹" + snap.TotalPrice.StringFixed(2)},
		{"Order Date", snap.OrderDate.Format(dateLayout)},
	}

	text := fmt.Sprintf(`New Order Received - #%d

A new order has been placed.

%s
Please review it in the admin panel.`, snap.OrderID, detailLines(rows))

	html := wrapHTML("New Order Received", fmt.Sprintf(`
		<p>A new order has been placed and is awaiting review.</p>
		%s`, detailTable(rows)))

	return Rendered{Subject: subject, HTMLBody: html, TextBody: text}
}

// RenderPaymentReceived renders the payment confirmation sent to the customer
func RenderPaymentReceived(snap models.OrderSnapshot) Rendered {
	subject := fmt.Sprintf("Payment Received - Order #%d", snap.OrderID)

	rows := [][2]string{
		{"Order ID", fmt.Sprintf("#%d", snap.OrderID)},
		{"Item", snap.ItemName},
		{"Amount Paid", "₹" + snap.TotalPrice.StringFixed(2)},
		{"Payment Status", string(models.PaymentPaid)},
	}

	text := fmt.Sprintf(`Payment Received

Dear %s,

Thank you for your payment! We have successfully received your payment for Order #%d.

%s
Your order is now being processed. You will receive another notification when your order is delivered.`,
		snap.CustomerName, snap.OrderID, detailLines(rows))

	html := wrapHTML("Payment Received", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for your payment! We have successfully received your payment for Order #%d.</p>
		%s
		<p>Your order is now being processed. You will receive another notification when your order is delivered.</p>`,
		snap.CustomerName, snap.OrderID, detailTable(rows)))

	return Rendered{Subject: subject, HTMLBody: html, TextBody: text}
}

// RenderDelivered renders the delivery confirmation sent to the customer
func RenderDelivered(snap models.OrderSnapshot) Rendered {
	subject := fmt.Sprintf("Order Delivered - #%d", snap.OrderID)
	deliveredOn := time.Now().Format("02-01-2006")

	rows := [][2]string{
		{"Order ID", fmt.Sprintf("#%d", snap.OrderID)},
		{"Item", snap.ItemName},
		{"Delivery Status", string(models.DeliveryDelivered)},
		{"Delivery Date", deliveredOn},
	}

	text := fmt.Sprintf(`Order Delivered

Dear %s,

Great news! Your order #%d has been successfully delivered.

%s
We hope you enjoy your purchase. If you need support with your %s, please contact us.`,
		snap.CustomerName, snap.OrderID, detailLines(rows), snap.ItemName)

	html := wrapHTML("Order Delivered", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Great news! Your order #%d has been successfully delivered.</p>
		%s
		<p>We hope you enjoy your purchase. If you need support with your %s, please contact us.</p>`,
		snap.CustomerName, snap.OrderID, detailTable(rows), snap.ItemName))

	return Rendered{Subject: subject, HTMLBody: html, TextBody: text}
}

func detailLines(rows [][2]string) string {
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %s\n", row[0], row[1])
	}
	return b.String()
}

func detailTable(rows [][2]string) string {
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">`)
	for _, row := range rows {
		fmt.Fprintf(&b, `<tr>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eee; color: #666;">%s</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eee; font-weight: 600;">%s</td>
		</tr>`, row[0], row[1])
	}
	b.WriteString("</table>")
	return b.String()
}

func wrapHTML(heading, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #4a5568; padding: 24px; border-radius: 8px 8px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">%s</h1>
	</div>
	<div style="background: #fff; padding: 24px; border: 1px solid #eee; border-top: none; border-radius: 0 0 8px 8px;">
		%s
		<hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. If you have any questions, please contact our support team.
		</p>
	</div>
</body>
</html>`, heading, body)
}
