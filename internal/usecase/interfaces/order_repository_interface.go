package interfaces

import (
	"context"

	"ktcomp_payments/internal/domain/entities"
)

// IOrderRepository abstracts the checkout subsystem's order store.
//
// The payment core never creates orders; it reads one and applies the payment
// outcome to it exactly once.

type IOrderRepository interface {
	GetByID(ctx context.Context, id string) (entities.Order, error)

	// ApplyPaymentOutcome writes the order's workflow status and payment
	// status, and on a successful payment decrements reserved stock for every
	// order line, all in a single transactional write so the order can never
	// half-reflect a resolved payment.
	ApplyPaymentOutcome(ctx context.Context, order entities.Order, status entities.OrderStatus, paymentStatus entities.OrderPaymentStatus, decrementStock bool) error
}
