package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature      = errors.New("webhook signature verification failed")
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")
	ErrUnknownReference      = errors.New("unknown provider reference")
	ErrInvalidProviderRef    = errors.New("invalid provider reference")
)

// WebhookResult reports how a verified delivery was handled.
//
// AlreadyProcessed marks the idempotent replay path: the payment was terminal
// before this delivery, nothing was mutated and nothing was re-notified.

type WebhookResult struct {
	PaymentID        string
	Status           entities.PaymentStatus
	AlreadyProcessed bool
	Ignored          bool
	Notified         bool
}

// IWebhookUseCase processes inbound provider deliveries. The raw body bytes
// are passed through untouched because the signature scheme is byte-exact.
// ListDeliveries exposes the audit trail for support tooling when a payment
// outcome is disputed.

type IWebhookUseCase interface {
	Process(ctx context.Context, signature string, rawBody []byte) (WebhookResult, error)
	ListDeliveries(ctx context.Context, providerRef string) ([]entities.WebhookEvent, error)
}

// webhookPayload is the provider-defined body. Paypack posts the transaction
// either at the top level or wrapped in a "data" envelope depending on the
// event kind, so both shapes are accepted.

type webhookPayload struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
	Data   struct {
		Ref    string `json:"ref"`
		Status string `json:"status"`
	} `json:"data"`
}

func (p webhookPayload) resolve() (ref, status string) {
	if p.Data.Ref != "" {
		return p.Data.Ref, p.Data.Status
	}
	return p.Ref, p.Status
}

type WebhookUseCase struct {
	payments interfaces.IPaymentRepository
	orders   interfaces.IOrderRepository
	events   interfaces.IWebhookEventRepository
	gateway  interfaces.IPaymentGateway
	notifier interfaces.IPaymentNotifier
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(
	payments interfaces.IPaymentRepository,
	orders interfaces.IOrderRepository,
	events interfaces.IWebhookEventRepository,
	gateway interfaces.IPaymentGateway,
	notifier interfaces.IPaymentNotifier,
) *WebhookUseCase {
	return &WebhookUseCase{payments: payments, orders: orders, events: events, gateway: gateway, notifier: notifier}
}

// Process runs the full ingestion contract: authenticity gate, parse, resolve,
// idempotent terminal transition, order cascade, notification.
//
// The signature check runs before any JSON parsing so unverified input never
// reaches the parser. Any error after the transition applied is surfaced as-is
// so the HTTP layer answers 5xx and the provider redelivers; on redelivery the
// transition gate makes the payment write a no-op and the cascade is re-run
// only if the order was left untouched, so the payment and order converge
// without ever double-applying.
func (u *WebhookUseCase) Process(ctx context.Context, signature string, rawBody []byte) (WebhookResult, error) {
	if !u.gateway.VerifyWebhookSignature(signature, rawBody) {
		log.Printf("[webhook][usecase] signature verification failed body_len=%d", len(rawBody))
		return WebhookResult{}, ErrInvalidSignature
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		log.Printf("[webhook][usecase] payload unmarshal failed err=%v", err)
		return WebhookResult{}, ErrInvalidWebhookPayload
	}
	ref, reported := payload.resolve()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		log.Printf("[webhook][usecase] payload missing provider ref")
		return WebhookResult{}, ErrInvalidWebhookPayload
	}
	log.Printf("[webhook][usecase] process start provider_ref=%s reported=%s", ref, reported)

	payment, err := u.payments.GetByProviderRef(ctx, ref)
	if err != nil {
		log.Printf("[webhook][usecase] payment lookup failed provider_ref=%s err=%v", ref, err)
		return WebhookResult{}, err
	}
	if payment.ID == "" {
		// Never fabricate a payment for a reference this system did not issue.
		log.Printf("[webhook][usecase] unknown provider ref provider_ref=%s", ref)
		u.audit(ctx, ref, reported, entities.WebhookOutcomeUnresolved, rawBody)
		return WebhookResult{}, ErrUnknownReference
	}

	status, terminal := mapProviderStatus(reported)
	if !terminal {
		// Intermediate provider events carry no terminal outcome; acknowledge
		// without transitioning so monotonicity holds.
		log.Printf("[webhook][usecase] non-terminal status ignored payment_id=%s reported=%s", payment.ID, reported)
		u.audit(ctx, ref, reported, entities.WebhookOutcomeIgnored, rawBody)
		return WebhookResult{PaymentID: payment.ID, Status: payment.Status, Ignored: true}, nil
	}

	applied, err := u.payments.MarkTerminal(ctx, payment.ID, status)
	if err != nil {
		log.Printf("[webhook][usecase] terminal transition failed payment_id=%s status=%s err=%v", payment.ID, status, err)
		return WebhookResult{}, err
	}
	if !applied {
		// Provider retry of an already-resolved payment. Usually a pure
		// no-op, but if the first delivery died between the terminal write
		// and the order cascade, this redelivery is the retry that must
		// finish the cascade; otherwise the order would stay PENDING forever.
		log.Printf("[webhook][usecase] already terminal payment_id=%s", payment.ID)
		u.audit(ctx, ref, reported, entities.WebhookOutcomeDuplicate, rawBody)
		current, err := u.payments.GetByID(ctx, payment.ID)
		if err != nil {
			return WebhookResult{}, err
		}
		if current.ID == "" {
			current = payment
		}
		notified := false
		if payment.OrderID != "" && current.Status.IsTerminal() {
			repaired, err := u.cascadeOrder(ctx, payment.OrderID, current.Status)
			if err != nil {
				log.Printf("[webhook][usecase] order cascade retry failed payment_id=%s order_id=%s err=%v", payment.ID, payment.OrderID, err)
				return WebhookResult{}, err
			}
			if repaired {
				log.Printf("[webhook][usecase] order cascade completed on redelivery payment_id=%s order_id=%s", payment.ID, payment.OrderID)
				if u.notifier != nil {
					// The first delivery never reached the notify step.
					notified = u.notifier.PushIfPresent(payment.ID, current.Status)
				}
			}
		}
		return WebhookResult{PaymentID: payment.ID, Status: current.Status, AlreadyProcessed: true, Notified: notified}, nil
	}

	if payment.OrderID != "" {
		if _, err := u.cascadeOrder(ctx, payment.OrderID, status); err != nil {
			log.Printf("[webhook][usecase] order cascade failed payment_id=%s order_id=%s err=%v", payment.ID, payment.OrderID, err)
			return WebhookResult{}, err
		}
	}

	u.audit(ctx, ref, reported, entities.WebhookOutcomeApplied, rawBody)

	notified := false
	if u.notifier != nil {
		notified = u.notifier.PushIfPresent(payment.ID, status)
	}
	log.Printf("[webhook][usecase] process success payment_id=%s status=%s notified=%t", payment.ID, status, notified)

	return WebhookResult{PaymentID: payment.ID, Status: status, Notified: notified}, nil
}

// cascadeOrder applies the payment outcome to the linked order and reports
// whether it wrote anything. An order whose payment_status is already
// terminal is left alone, so a cascade that ran to completion is never
// re-applied and stock is never decremented twice; an order still PENDING is
// written, whether this is the first delivery or a redelivery completing a
// cascade that previously failed.
func (u *WebhookUseCase) cascadeOrder(ctx context.Context, orderID string, status entities.PaymentStatus) (bool, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.ID == "" {
		log.Printf("[webhook][usecase] linked order missing order_id=%s", orderID)
		return false, nil
	}
	if order.PaymentStatus == entities.OrderPaymentPaid || order.PaymentStatus == entities.OrderPaymentFailed {
		return false, nil
	}

	if status == entities.PaymentStatusSuccessful {
		return true, u.orders.ApplyPaymentOutcome(ctx, order, entities.OrderStatusConfirmed, entities.OrderPaymentPaid, true)
	}
	return true, u.orders.ApplyPaymentOutcome(ctx, order, entities.OrderStatusCancelled, entities.OrderPaymentFailed, false)
}

// ListDeliveries returns every audited delivery for a provider reference,
// disputed-outcome investigations being the expected caller.
func (u *WebhookUseCase) ListDeliveries(ctx context.Context, providerRef string) ([]entities.WebhookEvent, error) {
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return nil, ErrInvalidProviderRef
	}
	if u.events == nil {
		return nil, nil
	}
	return u.events.ListByProviderRef(ctx, providerRef)
}

func (u *WebhookUseCase) audit(ctx context.Context, ref, reported string, outcome entities.WebhookEventOutcome, rawBody []byte) {
	if u.events == nil {
		return
	}
	_, err := u.events.Create(ctx, entities.WebhookEvent{
		ID:          uuid.NewString(),
		ProviderRef: ref,
		Reported:    reported,
		Outcome:     outcome,
		RawPayload:  append([]byte(nil), rawBody...),
		ReceivedAt:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[webhook][usecase] audit write failed provider_ref=%s err=%v", ref, err)
	}
}

// mapProviderStatus maps Paypack's reported status onto the local terminal
// set. Anything that is not an explicit outcome is treated as intermediate.
func mapProviderStatus(reported string) (entities.PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(reported)) {
	case "successful", "success":
		return entities.PaymentStatusSuccessful, true
	case "failed":
		return entities.PaymentStatusFailed, true
	default:
		return "", false
	}
}
