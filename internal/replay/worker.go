// Package replay implements the Scheduled-Replay Worker (C7): drains due
// entries from provider_orders.payload.scheduledReplays and executes
// them through C4, recording one ProviderAutomationRun summary per pass.
// Grounded on the same stopCh/wg periodic-worker shape
// libs/go/services/metrics_scheduler.go establishes, shared with C6.
package replay

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

const interEntryJitterMax = 250 * time.Millisecond

// Worker is the C7 loop.
type Worker struct {
	queries      db.Querier
	automation   *automation.Service
	pollInterval time.Duration
	limit        int

	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type Option func(*Worker)

func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) { w.pollInterval = d }
}

func WithLimit(n int) Option {
	return func(w *Worker) { w.limit = n }
}

func New(queries db.Querier, automationSvc *automation.Service, opts ...Option) *Worker {
	w := &Worker{
		queries:      queries,
		automation:   automationSvc,
		pollInterval: 30 * time.Second,
		limit:        50,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Start() {
	logger.Info("starting scheduled-replay worker", zap.Duration("poll_interval", w.pollInterval))
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		logger.Info("stopping scheduled-replay worker")
		close(w.stopCh)
		w.wg.Wait()
	})
}

func (w *Worker) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(context.Background())
		case <-w.stopCh:
			return
		}
	}
}

// RunOnce drains every due scheduled replay across every provider order,
// exercising a small jittered delay between entries so a large backlog
// doesn't hammer provider endpoints back-to-back. Exported for tests and
// for cmd/lambda/replay, which runs one pass per scheduled invocation.
func (w *Worker) RunOnce(ctx context.Context) {
	started := time.Now()
	run := types.ProviderAutomationRun{
		ID:        uuid.New(),
		RunType:   types.AutomationRunReplay,
		StartedAt: started,
	}

	orders, err := w.queries.ListProviderOrdersWithDueScheduledReplays(ctx, started)
	if err != nil {
		logger.Error("failed to list due scheduled replays", zap.Error(err))
		run.FinishedAt = time.Now()
		w.persistRun(ctx, run)
		return
	}

	for _, po := range orders {
		for _, entry := range po.Payload.ScheduledReplays {
			if entry.Status != types.ScheduledReplayScheduled || entry.ScheduledFor.After(started) {
				continue
			}
			if run.Processed >= w.limit {
				break
			}
			run.Processed++

			renderCtx := map[string]any{
				"orderId":         po.OrderID.String(),
				"orderItemId":     po.OrderItemID.String(),
				"serviceId":       po.ServiceID.String(),
				"serviceAction":   "replay",
				"requestedAmount": entry.RequestedAmount.Float64(),
				"currency":        entry.Currency,
				"providerOrderId": po.Payload.ProviderOrderID,
			}

			if _, err := w.automation.ExecuteScheduledReplay(ctx, po.ID, entry.ID, renderCtx); err != nil {
				logger.Warn("scheduled replay execution failed",
					zap.String("provider_order_id", po.ID.String()), zap.String("entry_id", entry.ID.String()), zap.Error(err))
				run.Failed++
			} else {
				run.Succeeded++
			}

			sleepWithJitter(w.stopCh)
		}
	}

	run.ScheduledBacklog = countRemainingScheduled(orders, started)
	run.FinishedAt = time.Now()
	w.persistRun(ctx, run)
}

func (w *Worker) persistRun(ctx context.Context, run types.ProviderAutomationRun) {
	if err := w.queries.CreateProviderAutomationRun(ctx, run); err != nil {
		logger.Error("failed to persist provider automation run", zap.Error(err))
	}
}

func countRemainingScheduled(orders []types.FulfillmentProviderOrder, asOf time.Time) int {
	count := 0
	for _, po := range orders {
		for _, entry := range po.Payload.ScheduledReplays {
			if entry.Status == types.ScheduledReplayScheduled && !entry.ScheduledFor.After(asOf) {
				count++
			}
		}
	}
	return count
}

func sleepWithJitter(stopCh chan struct{}) {
	jitter := time.Duration(rand.Int63n(int64(interEntryJitterMax)))
	select {
	case <-time.After(jitter):
	case <-stopCh:
	}
}
