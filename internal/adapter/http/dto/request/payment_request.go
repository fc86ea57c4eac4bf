package request

// InitiatePaymentRequest is the payload for starting a mobile-money charge.
//
// `order_id` is optional: a payment can be initiated without a pre-existing
// order (diagnostic charges, deferred order linking).

type InitiatePaymentRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Number  string `json:"number" binding:"required"`
	OrderID string `json:"order_id"`
}
