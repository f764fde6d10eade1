// Command cron runs one configured cron job (C10) per invocation — an
// EventBridge rule owns the trigger schedule per job id, rather than
// robfig/cron/v3's own ticking inside cmd/worker's long-running
// cron.Scheduler. JOB_ID selects which job from the schedule file this
// function instance runs. Grounded on the teacher's
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
	"github.com/smplat/fulfillment/internal/cron"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/replay"
)

// Application holds all dependencies for the Lambda handler.
type Application struct {
	scheduler *cron.Scheduler
	jobID     string
}

// HandleRequest runs the configured job once and returns its error, if
// any, to the Lambda runtime.
func (app *Application) HandleRequest(ctx context.Context) error {
	logger.Info("cron invocation started", zap.String("job_id", app.jobID))
	err := app.scheduler.RunJob(ctx, app.jobID)
	logger.Info("cron invocation finished", zap.String("job_id", app.jobID))
	return err
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

	jobID := os.Getenv("JOB_ID")
	if jobID == "" {
		logger.Fatal("JOB_ID environment variable is required")
	}

	cfg := config.MustLoad(stage)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("unable to reach database at startup", zap.Error(err))
	}
	queries := db.New(pool)

	invoker := providerhttp.New()
	automationSvc := automation.NewService(queries, invoker)
	replayWorker := replay.New(queries, automationSvc)

	cronStore := metrics.NewCronStore()
	schedule, err := cron.LoadSchedule(cfg.CronSchedulePath)
	if err != nil {
		logger.Fatal("unable to load cron schedule", zap.Error(err))
	}
	registry := map[string]cron.Task{
		"providers.replay.run_scheduled":   cron.ReplayTask(replayWorker),
		"providers.automation.alert_check": cron.AutomationAlertTask(automationSvc),
	}
	scheduler, err := cron.New(schedule, registry, queries, cronStore)
	if err != nil {
		logger.Fatal("invalid cron schedule configuration", zap.Error(err))
	}

	app := &Application{scheduler: scheduler, jobID: jobID}

	if stage == config.StageLocal {
		if err := app.HandleRequest(ctx); err != nil {
			logger.Fatal("cron invocation failed", zap.Error(err))
		}
		return
	}
	lambda.Start(app.HandleRequest)
}
