package handlers

import (
	"errors"
	"log"
	"net/http"

	request "ktcomp_payments/internal/adapter/http/dto/request"
	response "ktcomp_payments/internal/adapter/http/dto/response"
	"ktcomp_payments/internal/usecase"
	"ktcomp_payments/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid payment payload", http.StatusBadRequest)

// PaymentHandler handles HTTP requests for payment initiation and status.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// InitiatePayment starts a mobile-money charge and returns the local payment
// id the client registers and polls against.
//
// A gateway failure still answers with the payment id: the PENDING record is
// retained and the client may poll it while deciding whether to retry.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var payload request.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] invalid payload err=%v", err)
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.Initiate(c.Request.Context(), payload.Amount, payload.Number, payload.OrderID)
	if err != nil {
		log.Printf("[payment][handler] initiate failed order_id=%q err=%v", payload.OrderID, err)
		if errors.Is(err, usecase.ErrGatewayCashin) {
			// The PENDING record survived the gateway failure; the id rides
			// along so the client can still register and poll it.
			appErr := pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE",
				"Payment provider rejected or did not answer the charge request",
				err, http.StatusBadGateway).
				WithDetail("payment_id", created.ID)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[payment][handler] initiate success payment_id=%s provider_ref=%s", created.ID, created.ProviderRef)

	c.JSON(http.StatusCreated, response.FromPayment(created))
}

// GetPaymentStatus is the polling fallback for the realtime channel: it reads
// the same persisted state the webhook writes.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	paymentID := c.Param("payment_id")

	p, err := h.usecase.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.StatusFromPayment(p))
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount), errors.Is(err, usecase.ErrInvalidNumber), errors.Is(err, usecase.ErrInvalidPaymentID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
