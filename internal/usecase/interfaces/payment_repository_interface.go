package interfaces

import (
	"context"

	"ktcomp_payments/internal/domain/entities"
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Lookups return a zero-value entity (ID == "") when nothing matches; errors
// are reserved for infrastructure failures.

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	GetByProviderRef(ctx context.Context, ref string) (entities.Payment, error)

	// SetProviderRef assigns the provider transaction reference. It is a
	// conditional write: the reference is set at most once per payment.
	SetProviderRef(ctx context.Context, id, ref string) error

	// MarkTerminal transitions a PENDING payment to the given terminal status.
	// It returns applied=false (with nil error) when the payment is already
	// terminal, which is the idempotency signal for repeated webhooks.
	MarkTerminal(ctx context.Context, id string, status entities.PaymentStatus) (applied bool, err error)
}
