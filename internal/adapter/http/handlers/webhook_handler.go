package handlers

import (
	"errors"
	"log"
	"net/http"

	response "ktcomp_payments/internal/adapter/http/dto/response"
	"ktcomp_payments/internal/usecase"
	"ktcomp_payments/pkg"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the provider's HMAC over the request body.
const SignatureHeader = "X-Paypack-Signature"

// WebhookHandler is the sole trusted entry point for provider-originated
// status changes.

type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleWebhook verifies and applies an inbound provider delivery.
//
// The body is read raw and handed to the use case untouched: the signature
// scheme is byte-exact, so re-serialized JSON would not verify. Response
// policy drives the provider's retry behavior: 401 (forged, never retried
// into success), 404 (unknown ref), 200 (applied or already processed),
// 500 (transient; the provider redelivers, which the idempotent transition
// makes safe).
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		log.Printf("[webhook][handler] body read failed err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	res, err := h.usecase.Process(c.Request.Context(), c.GetHeader(SignatureHeader), rawBody)
	if err != nil {
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.WebhookAckResponse{
		PaymentID:        res.PaymentID,
		Status:           string(res.Status),
		AlreadyProcessed: res.AlreadyProcessed,
	})
}

// ListDeliveries is the support view over the webhook audit trail: every
// verified delivery recorded for a provider reference, newest state of a
// disputed payment included.
func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	events, err := h.usecase.ListDeliveries(c.Request.Context(), c.Query("provider_ref"))
	if err != nil {
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromWebhookEvents(events))
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidSignature):
		// Logged for security monitoring; a forged signature must never turn
		// into a retry-triggering 5xx.
		log.Printf("[webhook][handler] rejected unauthenticated delivery")
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Webhook signature verification failed", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrInvalidWebhookPayload):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid webhook payload", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidProviderRef):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Missing provider reference", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownReference):
		return pkg.NewDomainErrorSimple("UNKNOWN_REFERENCE", "No payment for this reference", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
