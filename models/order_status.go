package models

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// orderNext defines the single successor of each non-terminal status.
// completed and cancelled have no successor.
var orderNext = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderCompleted,
}

// NextOrderStatus returns the successor of s, or ok=false if s is terminal
// or unknown.
func NextOrderStatus(s OrderStatus) (OrderStatus, bool) {
	next, ok := orderNext[s]
	return next, ok
}

// CanCancelOrder reports whether an order in status s may be cancelled.
// Cancellation is one-way and not allowed from either terminal status.
func CanCancelOrder(s OrderStatus) bool {
	switch s {
	case OrderCompleted, OrderCancelled:
		return false
	}
	_, known := orderNext[s]
	return known
}

// ValidPaymentStatus reports whether s is one of the four payment states.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// CanSetPaymentStatus gates a payment-status change against the order's
// fulfillment status. The two axes are deliberately independent, with one
// exception: a cancelled order cannot be marked paid. Refunds and failures
// stay allowed so a cancelled-after-payment order can be reconciled.
func CanSetPaymentStatus(order OrderStatus, payment PaymentStatus) bool {
	if order == OrderCancelled && payment == PaymentPaid {
		return false
	}
	return ValidPaymentStatus(payment)
}
