package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	deliveries []delivery
	err        error
}

type delivery struct {
	to      string
	subject string
	html    string
	text    string
}

func (m *fakeMailer) Deliver(to, subject, htmlBody, textBody string) error {
	if m.err != nil {
		return m.err
	}
	m.deliveries = append(m.deliveries, delivery{to, subject, htmlBody, textBody})
	return nil
}

func sampleSnapshot() models.OrderSnapshot {
	return models.OrderSnapshot{
		OrderID:         42,
		CustomerID:      7,
		CustomerName:    "Kumar",
		CustomerPhone:   "9876501234",
		CustomerEmail:   "kumar@example.com",
		CustomerAddress: "5 Temple Road",
		ItemKind:        models.ItemKindCourse,
		ItemName:        "Tally Basics",
		Quantity:        1,
		UnitPrice:       decimal.RequireFromString("1500.00"),
		TotalPrice:      decimal.RequireFromString("1500.00"),
		PaymentStatus:   models.PaymentPaid,
		DeliveryStatus:  models.DeliveryPending,
		OrderDate:       time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestNotifyNewOrderGoesToAdmin(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "admin@example.com")

	ok := d.NotifyNewOrder(context.Background(), sampleSnapshot())

	assert.True(t, ok)
	require.Len(t, mailer.deliveries, 1)
	assert.Equal(t, "admin@example.com", mailer.deliveries[0].to)
	assert.Equal(t, "New Order #42", mailer.deliveries[0].subject)
	assert.Contains(t, mailer.deliveries[0].text, "Kumar")
	assert.Contains(t, mailer.deliveries[0].html, "Tally Basics")
}

func TestNotifyPaymentReceivedGoesToCustomer(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "admin@example.com")

	ok := d.NotifyPaymentReceived(context.Background(), sampleSnapshot())

	assert.True(t, ok)
	require.Len(t, mailer.deliveries, 1)
	assert.Equal(t, "kumar@example.com", mailer.deliveries[0].to)
	assert.Contains(t, mailer.deliveries[0].subject, "Payment Received")
	assert.Contains(t, mailer.deliveries[0].text, "1500.00")
}

func TestNotifySkippedWhenCustomerHasNoEmail(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "admin@example.com")

	snap := sampleSnapshot()
	snap.CustomerEmail = ""

	assert.False(t, d.NotifyPaymentReceived(context.Background(), snap))
	assert.False(t, d.NotifyDelivered(context.Background(), snap))
	assert.Empty(t, mailer.deliveries)
}

func TestDeliveryFailureReturnsFalseNotError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp unreachable")}
	d := NewDispatcher(mailer, "admin@example.com")

	// Best-effort contract: failure never panics or escalates.
	assert.False(t, d.NotifyNewOrder(context.Background(), sampleSnapshot()))
	assert.False(t, d.NotifyDelivered(context.Background(), sampleSnapshot()))
}

func TestRenderDeliveredMentionsItem(t *testing.T) {
	rendered := RenderDelivered(sampleSnapshot())

	assert.Equal(t, "Order Delivered - #42", rendered.Subject)
	assert.Contains(t, rendered.TextBody, "Tally Basics")
	assert.Contains(t, rendered.HTMLBody, "Delivered")
	assert.NotEmpty(t, rendered.TextBody)
}
