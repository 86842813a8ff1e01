package models

import "time"

// Event types
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderPaid      = "ORDER_PAID"
	EventTypeOrderDelivered = "ORDER_DELIVERED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is placed. Carries the full
// snapshot so the notification worker never queries storage.
type OrderCreatedEvent struct {
	BaseEvent
	Order OrderSnapshot `json:"order"`
}

// OrderPaidEvent published when payment status transitions to Paid
type OrderPaidEvent struct {
	BaseEvent
	Order OrderSnapshot `json:"order"`
}

// OrderDeliveredEvent published when delivery status transitions to Delivered
type OrderDeliveredEvent struct {
	BaseEvent
	Order OrderSnapshot `json:"order"`
}
