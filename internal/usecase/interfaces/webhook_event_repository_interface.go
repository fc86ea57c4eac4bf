package interfaces

import (
	"context"

	"ktcomp_payments/internal/domain/entities"
)

// IWebhookEventRepository persists the audit trail of verified provider
// deliveries. Writes are best-effort: a failed audit write must never fail
// the webhook response.

type IWebhookEventRepository interface {
	Create(ctx context.Context, e entities.WebhookEvent) (entities.WebhookEvent, error)
	ListByProviderRef(ctx context.Context, ref string) ([]entities.WebhookEvent, error)
}
