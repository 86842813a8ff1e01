package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTransitions(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentRefunded, PaymentPaid, false},
		{PaymentRefunded, PaymentPending, false},
		{PaymentPaid, PaymentPending, false},
		// Writing the current value back is always a valid no-op.
		{PaymentPending, PaymentPending, true},
		{PaymentPaid, PaymentPaid, true},
		{PaymentRefunded, PaymentRefunded, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestDeliveryTransitions(t *testing.T) {
	tests := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryPending, DeliveryProcessing, true},
		{DeliveryPending, DeliveryDelivered, true},
		{DeliveryPending, DeliveryCancelled, true},
		{DeliveryProcessing, DeliveryDelivered, true},
		{DeliveryProcessing, DeliveryCancelled, true},
		{DeliveryProcessing, DeliveryPending, false},
		// Delivered and Cancelled are terminal.
		{DeliveryDelivered, DeliveryProcessing, false},
		{DeliveryDelivered, DeliveryCancelled, false},
		{DeliveryDelivered, DeliveryPending, false},
		{DeliveryCancelled, DeliveryProcessing, false},
		{DeliveryCancelled, DeliveryDelivered, false},
		{DeliveryDelivered, DeliveryDelivered, true},
		{DeliveryCancelled, DeliveryCancelled, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, PaymentRefunded.Terminal())
	assert.False(t, PaymentPending.Terminal())
	assert.False(t, PaymentPaid.Terminal())

	assert.True(t, DeliveryDelivered.Terminal())
	assert.True(t, DeliveryCancelled.Terminal())
	assert.False(t, DeliveryPending.Terminal())
	assert.False(t, DeliveryProcessing.Terminal())
}

func TestParseRejectsUnknownStatuses(t *testing.T) {
	_, ok := ParsePaymentStatus("Shipped")
	assert.False(t, ok)
	_, ok = ParsePaymentStatus("paid")
	assert.False(t, ok, "status values are case sensitive")

	status, ok := ParsePaymentStatus("Paid")
	assert.True(t, ok)
	assert.Equal(t, PaymentPaid, status)

	_, ok = ParseDeliveryStatus("Lost")
	assert.False(t, ok)

	delivery, ok := ParseDeliveryStatus("Processing")
	assert.True(t, ok)
	assert.Equal(t, DeliveryProcessing, delivery)
}

func TestNotificationFiresOnEdgeOnly(t *testing.T) {
	assert.True(t, PaymentNotifies(PaymentPending, PaymentPaid))
	assert.False(t, PaymentNotifies(PaymentPaid, PaymentPaid))
	assert.False(t, PaymentNotifies(PaymentPending, PaymentPending))
	assert.False(t, PaymentNotifies(PaymentPaid, PaymentRefunded))

	assert.True(t, DeliveryNotifies(DeliveryPending, DeliveryDelivered))
	assert.True(t, DeliveryNotifies(DeliveryProcessing, DeliveryDelivered))
	assert.False(t, DeliveryNotifies(DeliveryDelivered, DeliveryDelivered))
	assert.False(t, DeliveryNotifies(DeliveryPending, DeliveryCancelled))
}

func TestParseItemKind(t *testing.T) {
	kind, ok := ParseItemKind("product")
	assert.True(t, ok)
	assert.Equal(t, ItemKindProduct, kind)

	kind, ok = ParseItemKind("course")
	assert.True(t, ok)
	assert.Equal(t, ItemKindCourse, kind)

	_, ok = ParseItemKind("bundle")
	assert.False(t, ok)
}
