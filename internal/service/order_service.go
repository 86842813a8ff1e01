package service

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/broker"
	"backoffice/internal/models"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles the order lifecycle: creation with price capture,
// status transitions, and the lifecycle events that drive notifications.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents a request to place an order.
// Exactly one of ProductID/CourseID must be set.
type CreateOrderRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address" binding:"required"`
	ProductID *int64 `json:"product_id,omitempty"`
	CourseID  *int64 `json:"course_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderResponse represents the response after placing an order
type CreateOrderResponse struct {
	OrderID        int64                 `json:"order_id"`
	CustomerID     int64                 `json:"customer_id"`
	TotalPrice     string                `json:"total_price"`
	PaymentStatus  models.PaymentStatus  `json:"payment_status"`
	DeliveryStatus models.DeliveryStatus `json:"delivery_status"`
}

// validateCreateOrder enforces the order shape invariants before any
// storage is touched.
func validateCreateOrder(req *CreateOrderRequest) error {
	if req.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", models.ErrConstraintViolation)
	}
	if req.ProductID != nil && req.CourseID != nil {
		return fmt.Errorf("order must reference a product or a course, not both: %w", models.ErrConstraintViolation)
	}
	if req.ProductID == nil && req.CourseID == nil {
		return fmt.Errorf("order must reference a product or a course: %w", models.ErrConstraintViolation)
	}
	return nil
}

// itemRef returns the kind and id of the referenced catalog item.
// Call only after validateCreateOrder.
func itemRef(req *CreateOrderRequest) (models.ItemKind, int64) {
	if req.ProductID != nil {
		return models.ItemKindProduct, *req.ProductID
	}
	return models.ItemKindCourse, *req.CourseID
}

// CreateOrder places a new order. The catalog unit price is captured once
// here; the stored total never changes when the catalog price does.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := validateCreateOrder(req); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_request").Inc()
		return nil, err
	}

	kind, itemID := itemRef(req)
	item, err := s.store.GetCatalogItem(ctx, kind, itemID)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("unknown_item").Inc()
		return nil, fmt.Errorf("resolve %s %d: %w", kind, itemID, models.ErrConstraintViolation)
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	order := &models.Order{
		ProductID:      req.ProductID,
		CourseID:       req.CourseID,
		Quantity:       req.Quantity,
		UnitPrice:      item.UnitPrice,
		TotalPrice:     item.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		PaymentStatus:  models.PaymentPending,
		DeliveryStatus: models.DeliveryPending,
	}

	if err := s.store.CreateOrder(ctx, customer, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("item", item.Name),
		zap.String("total", order.TotalPrice.StringFixed(2)))

	s.publishCreated(ctx, order.ID)

	return &CreateOrderResponse{
		OrderID:        order.ID,
		CustomerID:     customer.ID,
		TotalPrice:     order.TotalPrice.StringFixed(2),
		PaymentStatus:  order.PaymentStatus,
		DeliveryStatus: order.DeliveryStatus,
	}, nil
}

// ListCatalog retrieves catalog items of one kind for the public storefront
func (s *OrderService) ListCatalog(ctx context.Context, kind models.ItemKind, featuredOnly bool) ([]models.CatalogItem, error) {
	return s.store.ListCatalogItems(ctx, kind, featuredOnly)
}

// GetOrder retrieves the denormalized view of one order
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.OrderSnapshot, error) {
	return s.store.GetOrderSnapshot(ctx, orderID)
}

// ListOrders retrieves filtered order snapshots
func (s *OrderService) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.OrderSnapshot, error) {
	return s.store.ListOrderSnapshots(ctx, filter)
}

// UpdatePaymentStatus applies a payment transition. The write is conditional
// on the status the transition was validated against, so two concurrent
// writers cannot both apply it. The payment notification fires only when the
// status actually changes to Paid.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID int64, to models.PaymentStatus) (*models.TransitionEvent, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdatePaymentStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.PaymentStatus

	event := &models.TransitionEvent{
		OrderID: orderID,
		Axis:    models.AxisPayment,
		From:    string(from),
		To:      string(to),
	}

	if from == to {
		event.NoOp = true
		return event, nil
	}

	if !from.CanTransitionTo(to) {
		util.InvalidTransitionsTotal.WithLabelValues(models.AxisPayment).Inc()
		return nil, &models.InvalidTransitionError{Axis: models.AxisPayment, From: string(from), To: string(to)}
	}

	applied, err := s.store.UpdateOrderPaymentStatus(ctx, orderID, from, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.transitionConflict(ctx, orderID, models.AxisPayment, string(to))
	}

	util.StatusTransitionsTotal.WithLabelValues(models.AxisPayment, string(to)).Inc()
	s.logger.Info("Payment status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	if models.PaymentNotifies(from, to) {
		s.publishPaid(ctx, orderID)
	}

	return event, nil
}

// UpdateDeliveryStatus applies a delivery transition, symmetric to
// UpdatePaymentStatus. The delivery notification fires only on the
// Delivered edge.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, orderID int64, to models.DeliveryStatus) (*models.TransitionEvent, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateDeliveryStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.DeliveryStatus

	event := &models.TransitionEvent{
		OrderID: orderID,
		Axis:    models.AxisDelivery,
		From:    string(from),
		To:      string(to),
	}

	if from == to {
		event.NoOp = true
		return event, nil
	}

	if !from.CanTransitionTo(to) {
		util.InvalidTransitionsTotal.WithLabelValues(models.AxisDelivery).Inc()
		return nil, &models.InvalidTransitionError{Axis: models.AxisDelivery, From: string(from), To: string(to)}
	}

	applied, err := s.store.UpdateOrderDeliveryStatus(ctx, orderID, from, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.transitionConflict(ctx, orderID, models.AxisDelivery, string(to))
	}

	util.StatusTransitionsTotal.WithLabelValues(models.AxisDelivery, string(to)).Inc()
	s.logger.Info("Delivery status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	if models.DeliveryNotifies(from, to) {
		s.publishDelivered(ctx, orderID)
	}

	return event, nil
}

// transitionConflict rebuilds the rejection after a conditional write hit
// zero rows: the order either vanished or a concurrent transition won.
func (s *OrderService) transitionConflict(ctx context.Context, orderID int64, axis, to string) error {
	util.TransitionConflictsTotal.WithLabelValues(axis).Inc()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	current := string(order.PaymentStatus)
	if axis == models.AxisDelivery {
		current = string(order.DeliveryStatus)
	}
	s.logger.Warn("Status transition lost to concurrent writer",
		zap.Int64("order_id", orderID),
		zap.String("axis", axis),
		zap.String("current", current))
	return &models.InvalidTransitionError{Axis: axis, From: current, To: to}
}

// UpdateRemarks replaces the admin remarks on an order
func (s *OrderService) UpdateRemarks(ctx context.Context, orderID int64, remarks string) error {
	return s.store.UpdateOrderRemarks(ctx, orderID, remarks)
}

// DeleteOrder permanently removes an order
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.Int64("order_id", orderID))
	return nil
}

// CustomerDetail is a customer with their full order history
type CustomerDetail struct {
	Customer models.Customer        `json:"customer"`
	Orders   []models.OrderSnapshot `json:"orders"`
}

// GetCustomer retrieves a customer and their order history
func (s *OrderService) GetCustomer(ctx context.Context, customerID int64) (*CustomerDetail, error) {
	customer, err := s.store.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.ListCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: *customer, Orders: orders}, nil
}

// ListCustomers retrieves customers with order aggregates
func (s *OrderService) ListCustomers(ctx context.Context, search string) ([]models.CustomerSummary, error) {
	return s.store.ListCustomers(ctx, search)
}

// UpdateCustomer edits a customer's contact details
func (s *OrderService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.store.UpdateCustomer(ctx, customer)
}

// publishCreated emits ORDER_CREATED fire-and-forget. The snapshot is
// assembled here, once, so the notification worker never queries storage.
func (s *OrderService) publishCreated(ctx context.Context, orderID int64) {
	snap, err := s.store.GetOrderSnapshot(ctx, orderID)
	if err != nil {
		s.eventPublishFailed(models.EventTypeOrderCreated, orderID, err)
		return
	}
	event := &models.OrderCreatedEvent{BaseEvent: newBaseEvent(models.EventTypeOrderCreated), Order: *snap}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.eventPublishFailed(models.EventTypeOrderCreated, orderID, err)
	}
}

func (s *OrderService) publishPaid(ctx context.Context, orderID int64) {
	snap, err := s.store.GetOrderSnapshot(ctx, orderID)
	if err != nil {
		s.eventPublishFailed(models.EventTypeOrderPaid, orderID, err)
		return
	}
	event := &models.OrderPaidEvent{BaseEvent: newBaseEvent(models.EventTypeOrderPaid), Order: *snap}
	if err := s.eventPublisher.PublishOrderPaid(ctx, event); err != nil {
		s.eventPublishFailed(models.EventTypeOrderPaid, orderID, err)
	}
}

func (s *OrderService) publishDelivered(ctx context.Context, orderID int64) {
	snap, err := s.store.GetOrderSnapshot(ctx, orderID)
	if err != nil {
		s.eventPublishFailed(models.EventTypeOrderDelivered, orderID, err)
		return
	}
	event := &models.OrderDeliveredEvent{BaseEvent: newBaseEvent(models.EventTypeOrderDelivered), Order: *snap}
	if err := s.eventPublisher.PublishOrderDelivered(ctx, event); err != nil {
		s.eventPublishFailed(models.EventTypeOrderDelivered, orderID, err)
	}
}

// eventPublishFailed downgrades a publish failure to a warning. The business
// operation has already committed; losing the notification is acceptable.
func (s *OrderService) eventPublishFailed(eventType string, orderID int64, err error) {
	util.EventPublishFailuresTotal.WithLabelValues(eventType).Inc()
	s.logger.Warn("Failed to publish lifecycle event",
		zap.String("type", eventType),
		zap.Int64("order_id", orderID),
		zap.Error(err))
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
