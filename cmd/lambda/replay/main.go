// Command replay runs one pass of the scheduled-replay worker (C7)
// per invocation, the Lambda-scheduled counterpart to cmd/worker's
// long-running replay.Worker. Grounded on the teacher's
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
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/replay"
)

// Application holds all dependencies for the Lambda handler.
type Application struct {
	worker *replay.Worker
}

// HandleRequest runs one replay pass. RunOnce logs its own failures and
// returns nothing, so this always reports success to the Lambda runtime.
func (app *Application) HandleRequest(ctx context.Context) error {
	logger.Info("replay invocation started")
	app.worker.RunOnce(ctx)
	logger.Info("replay invocation finished")
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

	app := &Application{worker: replay.New(queries, automationSvc)}

	if stage == config.StageLocal {
		if err := app.HandleRequest(ctx); err != nil {
			logger.Fatal("replay invocation failed", zap.Error(err))
		}
		return
	}
	lambda.Start(app.HandleRequest)
}
