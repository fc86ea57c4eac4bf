package interfaces

import "context"

// CashinRequest starts a mobile-money charge against a subscriber number.
// Amount is an integral RWF value; the number is validated upstream.

type CashinRequest struct {
	Amount int64
	Number string
}

// CashinResponse is the provider's synchronous acknowledgment. Ref is the
// provider transaction reference later echoed by the webhook; Status is the
// provider's initial (non-terminal) state.

type CashinResponse struct {
	Ref    string
	Status string
}

// IPaymentGateway abstracts the mobile-money provider (Paypack).
//
// Cashin submits a charge; the terminal outcome arrives asynchronously via
// webhook. VerifyWebhookSignature is the single inbound trust decision: it
// operates on the raw, unparsed body bytes and returns false (never an error)
// for a missing or malformed signature.

type IPaymentGateway interface {
	Cashin(ctx context.Context, req CashinRequest) (CashinResponse, error)
	VerifyWebhookSignature(signature string, rawBody []byte) bool
}
