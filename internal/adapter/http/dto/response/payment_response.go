package response

import (
	"time"

	"ktcomp_payments/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID   string    `json:"payment_id"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	ProviderRef string    `json:"provider_ref,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.ID,
		Status:      string(p.Status),
		Amount:      p.Amount,
		ProviderRef: p.ProviderRef,
		OrderID:     p.OrderID,
		CreatedAt:   p.CreatedAt,
	}
}

// PaymentStatusResponse backs the status-poll endpoint; it exposes nothing
// beyond what the browser needs.

type PaymentStatusResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func StatusFromPayment(p entities.Payment) PaymentStatusResponse {
	return PaymentStatusResponse{PaymentID: p.ID, Status: string(p.Status)}
}

// WebhookAckResponse acknowledges an accepted (or already-processed) provider
// delivery.

type WebhookAckResponse struct {
	PaymentID        string `json:"payment_id,omitempty"`
	Status           string `json:"status,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
}

// WebhookDeliveryResponse is one audited delivery in the support view. The
// raw payload stays out of the response; it lives in the audit table only.

type WebhookDeliveryResponse struct {
	ID          string    `json:"id"`
	ProviderRef string    `json:"provider_ref"`
	Reported    string    `json:"reported"`
	Outcome     string    `json:"outcome"`
	ReceivedAt  time.Time `json:"received_at"`
}

func FromWebhookEvents(events []entities.WebhookEvent) []WebhookDeliveryResponse {
	out := make([]WebhookDeliveryResponse, 0, len(events))
	for _, e := range events {
		out = append(out, WebhookDeliveryResponse{
			ID:          e.ID,
			ProviderRef: e.ProviderRef,
			Reported:    e.Reported,
			Outcome:     string(e.Outcome),
			ReceivedAt:  e.ReceivedAt,
		})
	}
	return out
}
