package entities

import (
	"encoding/json"
	"time"
)

// WebhookEventOutcome records how an inbound provider delivery was handled.

type WebhookEventOutcome string

const (
	WebhookOutcomeApplied    WebhookEventOutcome = "applied"
	WebhookOutcomeDuplicate  WebhookEventOutcome = "duplicate"
	WebhookOutcomeIgnored    WebhookEventOutcome = "ignored"
	WebhookOutcomeUnresolved WebhookEventOutcome = "unresolved"
)

// WebhookEvent is the audit record for a verified provider delivery.
//
// Storage model (DynamoDB):
//   - PK: id
//
// RawPayload keeps the exact body bytes for traceability; deliveries that
// fail signature verification are never persisted (untrusted input).

type WebhookEvent struct {
	ID          string              `json:"id"`
	ProviderRef string              `json:"provider_ref"`
	Reported    string              `json:"reported"`
	Outcome     WebhookEventOutcome `json:"outcome"`
	RawPayload  json.RawMessage     `json:"raw_payload,omitempty"`
	ReceivedAt  time.Time           `json:"received_at"`
}
