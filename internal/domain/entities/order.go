package entities

import "time"

// OrderStatus is the order workflow state owned by the checkout subsystem.
// The payment core only ever writes it once, when a payment resolves.

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderPaymentStatus mirrors the payment outcome on the order row.

type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "PENDING"
	OrderPaymentPaid    OrderPaymentStatus = "PAID"
	OrderPaymentFailed  OrderPaymentStatus = "FAILED"
)

// OrderItem is one line of an order; Quantity is the reserved stock to
// decrement when the payment succeeds.

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Order is the checkout subsystem's order as seen by the payment core.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Only Status and PaymentStatus are mutated here, exactly once per order,
// alongside the stock decrement on success.

type Order struct {
	ID            string             `json:"id"`
	Status        OrderStatus        `json:"status"`
	PaymentStatus OrderPaymentStatus `json:"payment_status"`
	Items         []OrderItem        `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
