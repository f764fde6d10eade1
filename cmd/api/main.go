// Command api serves the HTTP API surface (§6) either as a local gin
// server or, when STAGE is not local, behind API Gateway via
// aws-lambda-go's gin adapter — grounded on the teacher's
// cmd/webhook-receiver/main.go dual-mode Lambda/local-HTTP pattern and
// internal/server.InitializeRoutes's gin bootstrap.
package main

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/api"
	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/config"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/notify"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/webhook"
)

var ginLambda *ginadapter.GinLambda

func main() {
	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = config.StageLocal
	}
	if !config.IsValidStage(stage) {
		stage = config.StageLocal
	}
	logger.InitLogger(stage)
	defer func() { _ = logger.Sync() }()

	cfg := config.MustLoad(stage)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("unable to reach database at startup", zap.Error(err))
	}
	queries := db.New(pool)

	invoker := providerhttp.New()
	automationSvc := automation.NewService(queries, invoker)
	state := orderstate.NewMachine(queries)

	emailBackend := notify.NewResendEmailBackend(cfg.ResendAPIKey, cfg.FromEmail, cfg.FromName)
	dispatcher := notify.NewDispatcher(queries, emailBackend, nil, nil)

	fulfillmentSvc := fulfillment.NewService(queries, automationSvc, state, dispatcher)
	webhookSvc := webhook.NewService(queries, cfg.PaymentProviderSecret, fulfillmentSvc, dispatcher)
	stripeClient := stripe.NewClient(cfg.PaymentProviderSecret, nil)
	paymentHandler := api.NewPaymentHandler(queries, webhookSvc, stripeClient, cfg.FrontendURL)

	var corsOrigins []string
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		corsOrigins = strings.Split(raw, ",")
	}

	router := api.NewRouter(api.Deps{
		Queries:            queries,
		Automation:         automationSvc,
		Fulfillment:        fulfillmentSvc,
		State:              state,
		Webhook:            webhookSvc,
		Payments:           paymentHandler,
		CheckoutAPIKey:     cfg.CheckoutAPIKey,
		CORSAllowedOrigins: corsOrigins,
		RateLimitPerSecond: cfg.APIRateLimitPerSecond,
		RateLimitBurst:     cfg.APIRateLimitBurst,
	})

	if stage == config.StageLocal {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("api server listening", zap.String("port", port))
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("api server exited", zap.Error(err))
		}
		return
	}

	ginLambda = ginadapter.New(router)
	lambda.Start(handleLambdaRequest)
}

func handleLambdaRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}
