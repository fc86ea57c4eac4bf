package entities

import "time"

// PaymentStatus represents the lifecycle of a mobile-money charge.
//
// A payment starts PENDING and moves to SUCCESSFUL or FAILED exactly once,
// driven only by a verified provider webhook. Terminal states are never
// re-entered or reversed.

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// IsTerminal reports whether no further status transition is valid.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccessful || s == PaymentStatusFailed
}

// Payment is a single mobile-money charge attempt.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (provider_ref-index): provider_ref
//
// ID is the only key ever exposed to the browser; ProviderRef is the join key
// for inbound webhooks and is set at most once, shortly after creation when
// the provider acknowledges the cash-in request.

type Payment struct {
	ID          string        `json:"id"`
	Amount      int64         `json:"amount"`
	Number      string        `json:"number"`
	ProviderRef string        `json:"provider_ref,omitempty"`
	Status      PaymentStatus `json:"status"`
	OrderID     string        `json:"order_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
