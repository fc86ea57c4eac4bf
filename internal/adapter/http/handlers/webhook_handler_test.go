package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ktcomp_payments/internal/adapter/http/handlers/mocks"
	"ktcomp_payments/internal/domain/entities"
	"ktcomp_payments/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestWebhookHandler_HandleWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(uc usecase.IWebhookUseCase) *gin.Engine {
		r := gin.New()
		r.POST("/v1/payments/webhook", NewWebhookHandler(uc).HandleWebhook)
		return r
	}

	body := []byte(`{"ref":"R1","status":"successful"}`)

	t.Run("applied delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "sig", body).
			Return(usecase.WebhookResult{PaymentID: "P1", Status: entities.PaymentStatusSuccessful}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBuffer(body))
		req.Header.Set(SignatureHeader, "sig")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["payment_id"] != "P1" || resp["status"] != "SUCCESSFUL" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("already processed delivery still acks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "sig", body).
			Return(usecase.WebhookResult{PaymentID: "P1", Status: entities.PaymentStatusSuccessful, AlreadyProcessed: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBuffer(body))
		req.Header.Set(SignatureHeader, "sig")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["already_processed"] != true {
			t.Fatalf("expected already_processed flag: %s", w.Body.String())
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "bad", body).
			Return(usecase.WebhookResult{}, usecase.ErrInvalidSignature)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBuffer(body))
		req.Header.Set(SignatureHeader, "bad")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "sig", body).
			Return(usecase.WebhookResult{}, usecase.ErrUnknownReference)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBuffer(body))
		req.Header.Set(SignatureHeader, "sig")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "sig", []byte("not-json")).
			Return(usecase.WebhookResult{}, usecase.ErrInvalidWebhookPayload)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBufferString("not-json"))
		req.Header.Set(SignatureHeader, "sig")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("delivery audit listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		r := gin.New()
		r.GET("/v1/payments/webhook/deliveries", NewWebhookHandler(uc).ListDeliveries)

		uc.EXPECT().ListDeliveries(gomock.Any(), "R1").Return([]entities.WebhookEvent{
			{ID: "E1", ProviderRef: "R1", Reported: "successful", Outcome: entities.WebhookOutcomeApplied},
			{ID: "E2", ProviderRef: "R1", Reported: "successful", Outcome: entities.WebhookOutcomeDuplicate},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/webhook/deliveries?provider_ref=R1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp) != 2 || resp[1]["outcome"] != "duplicate" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("delivery audit listing requires a provider ref", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		r := gin.New()
		r.GET("/v1/payments/webhook/deliveries", NewWebhookHandler(uc).ListDeliveries)

		uc.EXPECT().ListDeliveries(gomock.Any(), "").Return(nil, usecase.ErrInvalidProviderRef)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/webhook/deliveries", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("cascade failure surfaces 500 for provider retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWebhookUseCase(ctrl)

		uc.EXPECT().Process(gomock.Any(), "sig", body).
			Return(usecase.WebhookResult{}, errors.New("transact write failed"))

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBuffer(body))
		req.Header.Set(SignatureHeader, "sig")
		w := httptest.NewRecorder()
		newRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
