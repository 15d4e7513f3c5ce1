package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"settlement/internal/handler"
	"settlement/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RequestHandler *handler.RequestHandler
	WalletHandler  *handler.WalletHandler
	WebhookHandler *handler.WebhookHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	{
		// Request settlement routes.
		requests := v1.Group("/requests")
		{
			requests.POST("/:id/cancel", deps.RequestHandler.Cancel)
			requests.POST("/:id/payment-method", deps.RequestHandler.PaymentMethod)
			requests.POST("/:id/confirm-payment", deps.RequestHandler.ConfirmPayment)
		}

		// Wallet routes.
		wallets := v1.Group("/wallets")
		{
			wallets.POST("/topup", deps.WalletHandler.TopUp)
		}
	}

	// Webhook ingestion sits outside the idempotency middleware: the
	// gateway signs raw payloads and ingestion is idempotent on its own.
	router.POST("/v1/webhooks/stripe", deps.WebhookHandler.HandleStripeWebhook)

	return router
}
