package notifier

import (
	"context"

	"backoffice/internal/models"
	"backoffice/internal/util"

	"go.uber.org/zap"
)

// Dispatcher renders and sends the three notification kinds. Sending is
// best-effort: a delivery failure is logged and reported as false, never as
// an error, and never rolls back the transition that triggered it.
type Dispatcher struct {
	mailer     Mailer
	adminEmail string
	logger     *zap.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(mailer Mailer, adminEmail string) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		adminEmail: adminEmail,
		logger:     util.GetLogger(),
	}
}

// NotifyNewOrder sends the new-order notification to the configured admin
// address. Returns whether delivery succeeded.
func (d *Dispatcher) NotifyNewOrder(ctx context.Context, snap models.OrderSnapshot) bool {
	if d.adminEmail == "" {
		util.NotificationsSkippedTotal.WithLabelValues(KindNewOrder).Inc()
		d.logger.Warn("New-order notification skipped: no admin email configured",
			zap.Int64("order_id", snap.OrderID))
		return false
	}
	return d.send(ctx, KindNewOrder, d.adminEmail, RenderNewOrder(snap), snap.OrderID)
}

// NotifyPaymentReceived sends the payment confirmation to the customer.
// Skipped without error when the customer has no email on file.
func (d *Dispatcher) NotifyPaymentReceived(ctx context.Context, snap models.OrderSnapshot) bool {
	if snap.CustomerEmail == "" {
		util.NotificationsSkippedTotal.WithLabelValues(KindPaymentReceived).Inc()
		d.logger.Info("Payment notification skipped: customer has no email",
			zap.Int64("order_id", snap.OrderID))
		return false
	}
	return d.send(ctx, KindPaymentReceived, snap.CustomerEmail, RenderPaymentReceived(snap), snap.OrderID)
}

// NotifyDelivered sends the delivery confirmation to the customer.
// Skipped without error when the customer has no email on file.
func (d *Dispatcher) NotifyDelivered(ctx context.Context, snap models.OrderSnapshot) bool {
	if snap.CustomerEmail == "" {
		util.NotificationsSkippedTotal.WithLabelValues(KindDelivered).Inc()
		d.logger.Info("Delivery notification skipped: customer has no email",
			zap.Int64("order_id", snap.OrderID))
		return false
	}
	return d.send(ctx, KindDelivered, snap.CustomerEmail, RenderDelivered(snap), snap.OrderID)
}

func (d *Dispatcher) send(ctx context.Context, kind, to string, rendered Rendered, orderID int64) bool {
	if err := d.mailer.Deliver(to, rendered.Subject, rendered.HTMLBody, rendered.TextBody); err != nil {
		util.NotificationsFailedTotal.WithLabelValues(kind).Inc()
		d.logger.Warn("Notification delivery failed",
			zap.String("kind", kind),
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return false
	}

	util.NotificationsSentTotal.WithLabelValues(kind).Inc()
	d.logger.Info("Notification sent",
		zap.String("kind", kind),
		zap.Int64("order_id", orderID))
	return true
}
