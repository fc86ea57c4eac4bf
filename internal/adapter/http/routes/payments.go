package routes

import (
	"ktcomp_payments/internal/adapter/http/handlers"
	"ktcomp_payments/internal/realtime"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments = "/payments"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, webhookHandler *handlers.WebhookHandler, eventsHandler *realtime.Handler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.InitiatePayment)
		payments.GET("/:payment_id", paymentHandler.GetPaymentStatus)

		// Provider-facing delivery endpoint; authenticated by HMAC, not by session.
		payments.POST("/webhook", webhookHandler.HandleWebhook)

		// Support view over the webhook audit trail, keyed by provider ref.
		payments.GET("/webhook/deliveries", webhookHandler.ListDeliveries)

		// Websocket feed for payment resolution pushes.
		payments.GET("/events", eventsHandler.ServeWS)
	}
}
