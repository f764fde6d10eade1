// Package processor implements the Task Processor Loop (C6): a
// single-worker poll/claim/execute/retry/dead-letter cycle over
// fulfillment_tasks, grounded on the same stopCh/wg/Start/Stop shape
// libs/go/services/metrics_scheduler.go uses for its own periodic
// workers, generalized from a ticker-per-schedule design to one
// ticker-driven poll loop since C6 has a single cadence, not several.
package processor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	apierrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/types"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxRetryDelay       = 1800 * time.Second
	baseRetryDelay       = 60 * time.Second
)

// Handler executes one task's work and returns its result payload.
// Built-in handlers are registered under the task type they serve;
// http-execution tasks bypass the registry entirely (§4.6.1).
type Handler func(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error)

// Loop is the C6 worker: poll, claim, execute, retry/dead-letter.
type Loop struct {
	queries      db.Querier
	fulfillment  *fulfillment.Service
	metrics      *metrics.ProcessorStore
	httpClient   *http.Client
	handlers     map[types.TaskType]Handler
	pollInterval time.Duration
	batchSize    int

	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type Option func(*Loop)

func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) { l.pollInterval = d }
}

func WithBatchSize(n int) Option {
	return func(l *Loop) { l.batchSize = n }
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loop) { l.httpClient = c }
}

func New(queries db.Querier, fulfillmentSvc *fulfillment.Service, store *metrics.ProcessorStore, opts ...Option) *Loop {
	l := &Loop{
		queries:      queries,
		fulfillment:  fulfillmentSvc,
		metrics:      store,
		httpClient:   &http.Client{},
		pollInterval: 30 * time.Second,
		batchSize:    25,
		stopCh:       make(chan struct{}),
	}
	l.handlers = defaultHandlers()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start runs the poll loop in its own goroutine until Stop is called.
func (l *Loop) Start() {
	logger.Info("starting task processor loop", zap.Duration("poll_interval", l.pollInterval))
	l.wg.Add(1)
	go l.run()
}

func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		logger.Info("stopping task processor loop")
		close(l.stopCh)
		l.wg.Wait()
	})
}

func (l *Loop) run() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.runOnce(context.Background())
		case <-l.stopCh:
			return
		}
	}
}

// RunOnce drains up to batchSize due tasks, per §4.6. Exported for tests
// and for cmd/lambda/taskprocessor, which invokes a single pass per
// scheduled Lambda trigger instead of a persistent ticker loop.
func (l *Loop) RunOnce(ctx context.Context) {
	l.runOnce(ctx)
}

func (l *Loop) runOnce(ctx context.Context) {
	start := time.Now()
	l.metrics.RecordRunStart(start)

	tasks, err := l.queries.ListDueTasks(ctx, l.batchSize)
	if err != nil {
		logger.Error("failed to list due tasks", zap.Error(err))
		l.metrics.RecordRunFinish(time.Now(), err)
		return
	}

	for i := range tasks {
		l.processTask(ctx, &tasks[i])
	}

	l.metrics.RecordRunFinish(time.Now(), nil)
}

func (l *Loop) processTask(ctx context.Context, task *types.FulfillmentTask) {
	now := time.Now()
	if err := l.queries.UpdateTask(ctx, db.UpdateTaskParams{
		ID:          task.ID,
		Status:      types.TaskStatusInProgress,
		Result:      task.Result,
		RetryCount:  task.RetryCount,
		ScheduledAt: task.ScheduledAt,
		StartedAt:   &now,
		CompletedAt: nil,
	}); err != nil {
		logger.Error("failed to claim task", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	task.Status = types.TaskStatusInProgress
	task.StartedAt = &now

	result, execErr := l.execute(ctx, task)
	if execErr == nil {
		l.completeTask(ctx, task, result)
		l.metrics.RecordProcessed(string(task.TaskType))
	} else {
		l.handleTaskFailure(ctx, task, execErr)
		l.metrics.RecordFailed(string(task.TaskType))
	}

	l.recomputeOwningOrder(ctx, task)
}

// execute dispatches per §4.6: explicit execution descriptors run the
// HTTP path (§4.6.1); everything else goes to a built-in handler keyed
// by task type, falling back to an "unhandled" no-op result that still
// counts as success.
func (l *Loop) execute(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	if task.Payload != nil && task.Payload.Execution != nil {
		return l.executeHTTP(ctx, task, task.Payload.Execution)
	}

	handler, ok := l.handlers[task.TaskType]
	if !ok {
		return map[string]any{"status": "unhandled", "taskType": string(task.TaskType)}, nil
	}
	return handler(ctx, task)
}

func (l *Loop) completeTask(ctx context.Context, task *types.FulfillmentTask, result map[string]any) {
	now := time.Now()
	if err := l.queries.UpdateTask(ctx, db.UpdateTaskParams{
		ID:          task.ID,
		Status:      types.TaskStatusCompleted,
		Result:      result,
		RetryCount:  task.RetryCount,
		ScheduledAt: task.ScheduledAt,
		StartedAt:   task.StartedAt,
		CompletedAt: &now,
	}); err != nil {
		logger.Error("failed to persist completed task", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	task.Status = types.TaskStatusCompleted
	task.Result = result
	task.CompletedAt = &now
}

// handleTaskFailure implements §4.6 step (d): a TemplateError is never
// retried (per internal/errors.TemplateError's own doc comment — a bad
// or missing render key won't resolve itself on a later attempt), dead
// letters once the retry budget is exhausted, otherwise schedules a
// retry with exponential backoff capped at 30 minutes.
func (l *Loop) handleTaskFailure(ctx context.Context, task *types.FulfillmentTask, taskErr error) {
	if _, isTemplateErr := apierrors.Cause(taskErr).(*apierrors.TemplateError); isTemplateErr {
		l.deadLetter(ctx, task, taskErr)
		return
	}

	if task.RetryCount >= task.MaxRetries {
		l.deadLetter(ctx, task, taskErr)
		return
	}

	delay := retryDelay(task.RetryCount)
	if err := l.fulfillment.ScheduleRetry(ctx, task, delay, taskErr.Error()); err != nil {
		logger.Error("failed to schedule task retry", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	l.metrics.RecordRetried(string(task.TaskType))
}

// deadLetter marks task permanently failed without scheduling a retry.
func (l *Loop) deadLetter(ctx context.Context, task *types.FulfillmentTask, taskErr error) {
	now := time.Now()
	result := map[string]any{
		"deadLetter": true,
		"retryCount": task.RetryCount,
		"maxRetries": task.MaxRetries,
	}
	errMsg := taskErr.Error()
	if err := l.queries.UpdateTask(ctx, db.UpdateTaskParams{
		ID:           task.ID,
		Status:       types.TaskStatusFailed,
		Result:       result,
		ErrorMessage: &errMsg,
		RetryCount:   task.RetryCount,
		ScheduledAt:  task.ScheduledAt,
		StartedAt:    task.StartedAt,
		CompletedAt:  &now,
	}); err != nil {
		logger.Error("failed to persist dead-lettered task", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	task.Status = types.TaskStatusFailed
	task.Result = result
	task.CompletedAt = &now
	l.metrics.RecordDeadLettered(string(task.TaskType))
}

func retryDelay(retryCount int) time.Duration {
	delay := baseRetryDelay * time.Duration(1<<retryCount)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// recomputeOwningOrder resolves the order a task belongs to and lets
// the Fulfillment Service decide whether this task's outcome moves the
// order's aggregate status (§4.5.4).
func (l *Loop) recomputeOwningOrder(ctx context.Context, task *types.FulfillmentTask) {
	item, err := l.queries.GetOrderItem(ctx, task.OrderItemID)
	if err != nil {
		logger.Warn("could not resolve order item for task", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	if err := l.fulfillment.RecomputeOrderStatus(ctx, item.OrderID); err != nil {
		logger.Warn("order status recomputation failed", zap.String("order_id", item.OrderID.String()), zap.Error(err))
	}
}

// Metrics returns the current observability snapshot (§4.6.3).
func (l *Loop) Metrics() metrics.ProcessorSnapshot {
	return l.metrics.Snapshot()
}

var errUnsupportedExecutionKind = fmt.Errorf("unsupported execution kind")
