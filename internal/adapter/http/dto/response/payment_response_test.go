package response

import (
	"testing"
	"time"

	"ktcomp_payments/internal/domain/entities"
)

func TestFromPayment(t *testing.T) {
	now := time.Now().UTC()

	p := entities.Payment{
		ID:          "pay-1",
		Amount:      500,
		Number:      "0781234567",
		ProviderRef: "R1",
		Status:      entities.PaymentStatusSuccessful,
		OrderID:     "ord-1",
		CreatedAt:   now,
	}

	res := FromPayment(p)
	if res.PaymentID != "pay-1" || res.Status != "SUCCESSFUL" {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if res.Amount != 500 || res.ProviderRef != "R1" || res.OrderID != "ord-1" {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if !res.CreatedAt.Equal(now) {
		t.Fatalf("unexpected created_at: %+v", res)
	}
}

func TestStatusFromPayment(t *testing.T) {
	res := StatusFromPayment(entities.Payment{ID: "pay-1", Number: "0781234567", Status: entities.PaymentStatusPending})
	if res.PaymentID != "pay-1" || res.Status != "PENDING" {
		t.Fatalf("unexpected fields: %+v", res)
	}
}
