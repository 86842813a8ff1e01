package worker

import (
	"context"

	"backoffice/internal/broker"
	"backoffice/internal/models"
	"backoffice/internal/notifier"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order lifecycle events and dispatches the
// matching notifications. Dispatch is at-most-once per event: the broker
// redelivers, so each event id is checked against processed_events first,
// and a failed send is still recorded as processed (failures are terminal,
// there is no retry queue).
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	dispatcher   *notifier.Dispatcher
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(
	consumer *broker.Consumer,
	store *store.Store,
	dispatcher *notifier.Dispatcher,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:   consumer,
		store:      store,
		dispatcher: dispatcher,
		logger:     util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(func(ctx context.Context, event *models.OrderCreatedEvent) error {
		return w.handle(ctx, event.BaseEvent, event.Order, w.dispatcher.NotifyNewOrder)
	})
	eventHandler.OnOrderPaid(func(ctx context.Context, event *models.OrderPaidEvent) error {
		return w.handle(ctx, event.BaseEvent, event.Order, w.dispatcher.NotifyPaymentReceived)
	})
	eventHandler.OnOrderDelivered(func(ctx context.Context, event *models.OrderDeliveredEvent) error {
		return w.handle(ctx, event.BaseEvent, event.Order, w.dispatcher.NotifyDelivered)
	})
	w.eventHandler = eventHandler

	return w
}

func (w *NotificationWorker) handle(
	ctx context.Context,
	base models.BaseEvent,
	snap models.OrderSnapshot,
	notify func(context.Context, models.OrderSnapshot) bool,
) error {
	processed, err := w.store.IsEventProcessed(ctx, base.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Debug("Skipping already-processed event",
			zap.String("event_id", base.EventID),
			zap.String("type", base.EventType))
		return nil
	}

	notify(ctx, snap)

	return w.store.MarkEventProcessed(ctx, base.EventID, base.EventType)
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
