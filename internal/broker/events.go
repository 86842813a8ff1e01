package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"backoffice/internal/models"
	"backoffice/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes order lifecycle events. Publishing is
// fire-and-forget from the caller's perspective: a failure is reported so it
// can be logged, but the triggering business operation has already committed.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.Order.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderPaid publishes an OrderPaid event
func (ep *EventPublisher) PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error {
	key := fmt.Sprintf("order-%d", event.Order.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderDelivered publishes an OrderDelivered event
func (ep *EventPublisher) PublishOrderDelivered(ctx context.Context, event *models.OrderDeliveredEvent) error {
	key := fmt.Sprintf("order-%d", event.Order.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming lifecycle events to registered callbacks
type EventHandler struct {
	onOrderCreated   func(context.Context, *models.OrderCreatedEvent) error
	onOrderPaid      func(context.Context, *models.OrderPaidEvent) error
	onOrderDelivered func(context.Context, *models.OrderDeliveredEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderCreated registers a handler for OrderCreated events
func (eh *EventHandler) OnOrderCreated(handler func(context.Context, *models.OrderCreatedEvent) error) {
	eh.onOrderCreated = handler
}

// OnOrderPaid registers a handler for OrderPaid events
func (eh *EventHandler) OnOrderPaid(handler func(context.Context, *models.OrderPaidEvent) error) {
	eh.onOrderPaid = handler
}

// OnOrderDelivered registers a handler for OrderDelivered events
func (eh *EventHandler) OnOrderDelivered(handler func(context.Context, *models.OrderDeliveredEvent) error) {
	eh.onOrderDelivered = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated:
		if eh.onOrderCreated != nil {
			var event models.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
			}
			return eh.onOrderCreated(ctx, &event)
		}

	case models.EventTypeOrderPaid:
		if eh.onOrderPaid != nil {
			var event models.OrderPaidEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPaid event: %w", err)
			}
			return eh.onOrderPaid(ctx, &event)
		}

	case models.EventTypeOrderDelivered:
		if eh.onOrderDelivered != nil {
			var event models.OrderDeliveredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderDelivered event: %w", err)
			}
			return eh.onOrderDelivered(ctx, &event)
		}

	default:
		util.GetLogger().Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
