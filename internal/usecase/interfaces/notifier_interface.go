package interfaces

import "ktcomp_payments/internal/domain/entities"

// IPaymentNotifier pushes a resolved payment status to the one live client
// connection registered for that payment, if any.
//
// Absence of a registered connection is not an error; the client may be on
// the polling path instead. Delivery is one-shot per registration: a
// successful push removes the registration, so a re-invoked webhook can never
// notify twice.

type IPaymentNotifier interface {
	PushIfPresent(paymentID string, status entities.PaymentStatus) bool
}
