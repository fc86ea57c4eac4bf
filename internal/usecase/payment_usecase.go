package usecase

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidNumber    = errors.New("invalid recipient number")
	ErrInvalidPaymentID = errors.New("invalid payment id")
	ErrGatewayCashin    = errors.New("payment gateway cashin failed")
)

// Rwandan MTN/Airtel subscriber numbers: 07X followed by 7 digits,
// optionally prefixed with the +250/250 country code.
var recipientNumberRe = regexp.MustCompile(`^(?:\+?250)?(07[2389]\d{7})$`)

// IPaymentUseCase exposes the payment initiation and status operations.
//
//   - Initiate creates a PENDING payment, submits the cash-in to the provider
//     and returns the local payment id the client registers/polls against.
//   - GetByID backs the status-poll endpoint.
//
// Terminal transitions never happen here; only the webhook path resolves a
// payment.

type IPaymentUseCase interface {
	Initiate(ctx context.Context, amount int64, number, orderID string) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
}

type PaymentUseCase struct {
	repo    interfaces.IPaymentRepository
	gateway interfaces.IPaymentGateway
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, gateway: gateway}
}

func (u *PaymentUseCase) Initiate(ctx context.Context, amount int64, number, orderID string) (entities.Payment, error) {
	log.Printf("[payment][usecase] initiate start amount=%d number=%s order_id=%q", amount, number, orderID)

	if amount <= 0 {
		log.Printf("[payment][usecase] invalid amount amount=%d", amount)
		return entities.Payment{}, ErrInvalidAmount
	}
	number, ok := normalizeRecipientNumber(number)
	if !ok {
		log.Printf("[payment][usecase] invalid recipient number")
		return entities.Payment{}, ErrInvalidNumber
	}
	if u.repo == nil {
		return entities.Payment{}, errors.New("payment repository not configured")
	}
	if u.gateway == nil {
		return entities.Payment{}, errors.New("payment gateway not configured")
	}

	// The row is created before the gateway call so a local id exists for the
	// client to register against while the provider call is in flight.
	now := time.Now().UTC()
	p := entities.Payment{
		ID:        uuid.NewString(),
		Amount:    amount,
		Number:    number,
		Status:    entities.PaymentStatusPending,
		OrderID:   strings.TrimSpace(orderID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Printf("[payment][usecase] payment create failed err=%v", err)
		return entities.Payment{}, err
	}

	resp, err := u.gateway.Cashin(ctx, interfaces.CashinRequest{Amount: amount, Number: number})
	if err != nil {
		// The PENDING row is retained for audit; the id still reaches the
		// caller inside the error path so the client can poll it.
		log.Printf("[payment][usecase] gateway cashin failed payment_id=%s err=%v", created.ID, err)
		return created, errors.Join(ErrGatewayCashin, err)
	}

	if err := u.repo.SetProviderRef(ctx, created.ID, resp.Ref); err != nil {
		log.Printf("[payment][usecase] provider ref persist failed payment_id=%s ref=%s err=%v", created.ID, resp.Ref, err)
		return created, err
	}
	created.ProviderRef = resp.Ref

	log.Printf("[payment][usecase] initiate success payment_id=%s provider_ref=%s provider_status=%s", created.ID, resp.Ref, resp.Status)
	return created, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// normalizeRecipientNumber strips the optional country code and reports
// whether the number is a valid local subscriber number.
func normalizeRecipientNumber(number string) (string, bool) {
	m := recipientNumberRe.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return "", false
	}
	return m[1], true
}
