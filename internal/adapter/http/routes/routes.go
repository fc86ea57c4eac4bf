package routes

import (
	"log"
	"os"

	_ "ktcomp_payments/docs" // This will be auto-generated
	"ktcomp_payments/internal/adapter/http/handlers"
	"ktcomp_payments/internal/adapter/persistence/repository"
	"ktcomp_payments/internal/infrastructure/database"
	"ktcomp_payments/internal/infrastructure/payments"
	"ktcomp_payments/internal/realtime"
	"ktcomp_payments/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const defaultPort = "8080"

// Run will start the server
func Run() {
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	paymentRepo := repository.NewPaymentDynamoRepository(ddb)
	orderRepo := repository.NewOrderDynamoRepository(ddb)
	eventRepo := repository.NewWebhookEventDynamoRepository(ddb)

	gateway, err := payments.NewPaypackGateway(
		os.Getenv("PAYPACK_BASE_URL"),
		os.Getenv("PAYPACK_CLIENT_ID"),
		os.Getenv("PAYPACK_CLIENT_SECRET"),
		os.Getenv("PAYPACK_WEBHOOK_SECRET"),
	)
	if err != nil {
		log.Fatalf("Paypack gateway not configured: %v", err)
	}

	registry := realtime.NewRegistry()

	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, gateway)
	webhookUseCase := usecase.NewWebhookUseCase(paymentRepo, orderRepo, eventRepo, gateway, registry)

	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase)
	eventsHandler := realtime.NewHandler(registry)

	// Public routes
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, paymentHandler, webhookHandler, eventsHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
