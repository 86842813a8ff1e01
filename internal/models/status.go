package models

// PaymentStatus is the payment axis of an order's state.
type PaymentStatus string

// DeliveryStatus is the delivery axis of an order's state.
// The two axes are independent; there is no combined order state.
type DeliveryStatus string

// Payment statuses
const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Delivery statuses
const (
	DeliveryPending    DeliveryStatus = "Pending"
	DeliveryProcessing DeliveryStatus = "Processing"
	DeliveryDelivered  DeliveryStatus = "Delivered"
	DeliveryCancelled  DeliveryStatus = "Cancelled"
)

// paymentTransitions lists the reachable payment statuses per current status.
// Refunded is terminal and reachable only from Paid.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid},
	PaymentPaid:     {PaymentRefunded},
	PaymentRefunded: {},
}

// deliveryTransitions lists the reachable delivery statuses per current
// status. Delivered and Cancelled are terminal; Cancelled is reachable from
// any non-terminal status.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:    {DeliveryProcessing, DeliveryDelivered, DeliveryCancelled},
	DeliveryProcessing: {DeliveryDelivered, DeliveryCancelled},
	DeliveryDelivered:  {},
	DeliveryCancelled:  {},
}

// ParsePaymentStatus rejects unknown payment status strings at the boundary.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

// ParseDeliveryStatus rejects unknown delivery status strings at the boundary.
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	switch DeliveryStatus(s) {
	case DeliveryPending, DeliveryProcessing, DeliveryDelivered, DeliveryCancelled:
		return DeliveryStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether to is reachable from p. Writing the
// current value back is always permitted; it is a business no-op.
func (p PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	if p == to {
		return true
	}
	for _, next := range paymentTransitions[p] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further payment transitions are possible.
func (p PaymentStatus) Terminal() bool {
	return len(paymentTransitions[p]) == 0
}

// CanTransitionTo reports whether to is reachable from d. Writing the
// current value back is always permitted; it is a business no-op.
func (d DeliveryStatus) CanTransitionTo(to DeliveryStatus) bool {
	if d == to {
		return true
	}
	for _, next := range deliveryTransitions[d] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further delivery transitions are possible.
func (d DeliveryStatus) Terminal() bool {
	return len(deliveryTransitions[d]) == 0
}

// TransitionEvent describes an applied status change on one axis.
// NoOp is set when the requested status equaled the current one.
type TransitionEvent struct {
	OrderID int64  `json:"order_id"`
	Axis    string `json:"axis"`
	From    string `json:"from"`
	To      string `json:"to"`
	NoOp    bool   `json:"no_op"`
}

// Transition axes
const (
	AxisPayment  = "payment"
	AxisDelivery = "delivery"
)

// PaymentNotifies reports whether a payment transition triggers the
// payment-received notification. Fires on the Paid edge only, never on a
// repeated write of Paid.
func PaymentNotifies(from, to PaymentStatus) bool {
	return to == PaymentPaid && from != PaymentPaid
}

// DeliveryNotifies reports whether a delivery transition triggers the
// delivered notification. Fires on the Delivered edge only.
func DeliveryNotifies(from, to DeliveryStatus) bool {
	return to == DeliveryDelivered && from != DeliveryDelivered
}
