package cron

import (
	"context"

	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/replay"
)

// ReplayRunner is the subset of C7 the "providers.replay.run_scheduled"
// task resolves to.
type ReplayRunner interface {
	RunOnce(ctx context.Context)
}

var _ ReplayRunner = (*replay.Worker)(nil)

// ReplayTask wraps a C7 worker as a cron Task. RunOnce never returns an
// error of its own (it logs and persists internally), so this task
// always reports success back to the attempt loop; the scheduled
// invocation exists to guarantee a pass happens even if the continuous
// poller is disabled.
func ReplayTask(worker ReplayRunner) Task {
	return func(ctx context.Context, kwargs map[string]any) error {
		worker.RunOnce(ctx)
		return nil
	}
}

// AutomationAlertTask recomputes C4's snapshot/backlog aggregates and
// logs a warning when guardrail failures or a large scheduled-replay
// backlog indicate a provider integration needs attention. It never
// mutates state; a cron trigger exists purely so the condition is
// checked on a cadence even with no inbound traffic.
func AutomationAlertTask(automationSvc *automation.Service) Task {
	return func(ctx context.Context, kwargs map[string]any) error {
		snap, err := automationSvc.Snapshot(ctx)
		if err != nil {
			return err
		}
		backlog, err := automationSvc.Backlog(ctx)
		if err != nil {
			return err
		}
		if snap.Guardrails.Fail > 0 {
			logger.Warn("automation alert: guardrail failures present",
				zap.Int("fail_count", snap.Guardrails.Fail),
				zap.Any("guardrail_hits_by_service", snap.GuardrailHitsByService))
		}
		if backlog.ScheduledBacklog > 0 {
			logger.Info("automation alert: scheduled replay backlog",
				zap.Int("backlog", backlog.ScheduledBacklog))
		}
		return nil
	}
}
