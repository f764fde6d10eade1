// Command worker runs every long-lived background component of the
// fulfillment core — the task processor loop (C6), the scheduled-replay
// worker (C7), and the cron scheduler (C10) — under one supervisor (C13),
// per §5's concurrency model. Grounded on the teacher's
// apps/subscription-processor/cmd/main.go wiring shape, generalized from
// one Lambda-or-local process to a supervisor registering several workers.
package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/config"
	"github.com/smplat/fulfillment/internal/cron"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/notify"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/processor"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/replay"
	"github.com/smplat/fulfillment/internal/supervisor"
)

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
	processorLoop := processor.New(queries, fulfillmentSvc, processorStore)

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

	sup := supervisor.New()
	sup.Register("processor", supervisor.NewSimpleWorker(processorLoop.Start, processorLoop.Stop), cfg.FulfillmentWorkerEnabled)
	sup.Register("replay", supervisor.NewSimpleWorker(replayWorker.Start, replayWorker.Stop), cfg.ProviderReplayWorkerEnabled)
	cronEnabled := cfg.ProviderAutomationAlertWorkerEnabled || cfg.CatalogJobSchedulerEnabled
	sup.Register("cron", cronWorker{scheduler}, cronEnabled)

	if err := sup.Start(); err != nil {
		logger.Fatal("worker failed to start", zap.Error(err))
	}

	logger.Info("worker process started", zap.String("stage", stage))
	sup.Wait()
	logger.Info("worker process exited cleanly")
}

// cronWorker adapts *cron.Scheduler to supervisor.Worker (its Start
// already returns an error, unlike processor.Loop/replay.Worker's).
type cronWorker struct{ s *cron.Scheduler }

func (w cronWorker) Start() error { return w.s.Start() }
func (w cronWorker) Stop()        { w.s.Stop() }
