package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/webhook"
)

// Deps is everything the router needs to construct its handlers,
// mirroring the teacher's InitializeHandlers()/commonServices wiring.
type Deps struct {
	Queries     db.Querier
	Automation  *automation.Service
	Fulfillment *fulfillment.Service
	State       *orderstate.Machine
	Webhook     *webhook.Service
	Payments    *PaymentHandler

	CheckoutAPIKey     string
	CORSAllowedOrigins []string

	RateLimitPerSecond int
	RateLimitBurst     int
}

// NewRouter builds the gin engine: CORS, swagger, a bare /health, and
// the spec.md §6 route list behind RequireAPIKey — grounded on the
// teacher's InitializeRoutes(router).
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CorrelationID())

	corsConfig := cors.DefaultConfig()
	if len(deps.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = deps.CORSAllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key"}
	router.Use(cors.New(corsConfig))

	perSecond, burst := deps.RateLimitPerSecond, deps.RateLimitBurst
	if perSecond <= 0 {
		perSecond = 20
	}
	if burst <= 0 {
		burst = 40
	}
	router.Use(NewRateLimiter(perSecond, burst).Middleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	orderHandler := NewOrderHandler(deps.Queries, deps.Fulfillment, deps.State)
	automationHandler := NewAutomationHandler(deps.Queries, deps.Automation)

	protected := router.Group("/")
	protected.Use(RequireAPIKey(deps.CheckoutAPIKey))
	{
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/:id", orderHandler.GetOrder)
		protected.GET("/orders", orderHandler.ListOrders)
		protected.GET("/orders/user/:userId", orderHandler.ListOrdersByUser)
		protected.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
		protected.GET("/orders/:id/progress", orderHandler.GetOrderProgress)
		protected.GET("/orders/:id/state-events", orderHandler.ListOrderStateEvents)

		protected.POST("/payments/checkout", deps.Payments.CreateCheckout)

		protected.GET("/fulfillment/providers/automation/snapshot", automationHandler.GetSnapshot)
		protected.POST("/fulfillment/providers/:id/orders/:providerOrderId/replay", automationHandler.Replay)
	}

	// The Stripe webhook authenticates by signature, not API key.
	router.POST("/payments/webhooks/stripe", deps.Payments.HandleStripeWebhook)

	return router
}
