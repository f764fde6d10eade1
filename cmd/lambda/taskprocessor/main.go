// Command taskprocessor runs one pass of the task processor loop (C6)
// per invocation — the Lambda-scheduled counterpart to cmd/worker's
// long-running processor.Loop, for stages where §5 favors a
// scheduled Lambda over a standing process. Grounded on the teacher's
// apps/subscription-processor/cmd/main.go Application/HandleRequest
// pattern.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/config"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/notify"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/processor"
	"github.com/smplat/fulfillment/internal/providerhttp"
)

// Application holds all dependencies for the Lambda handler.
type Application struct {
	loop *processor.Loop
}

// HandleRequest runs one processor pass. RunOnce logs its own failures
// and returns nothing, so this always reports success to the Lambda
// runtime.
func (app *Application) HandleRequest(ctx context.Context) error {
	logger.Info("taskprocessor invocation started")
	app.loop.RunOnce(ctx)
	logger.Info("taskprocessor invocation finished")
	return nil
}

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
	processorStore := metrics.NewProcessorStore()

	app := &Application{loop: processor.New(queries, fulfillmentSvc, processorStore)}

	if stage == config.StageLocal {
		if err := app.HandleRequest(ctx); err != nil {
			logger.Fatal("taskprocessor invocation failed", zap.Error(err))
		}
		return
	}
	lambda.Start(app.HandleRequest)
}
