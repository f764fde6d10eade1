package cron

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/types"
)

// Task is an in-process async callable a job's `task` name resolves
// to, per §4.9 "resolve task as an in-process async callable
// reference". kwargs come from the job's TOML `kwargs` table.
type Task func(ctx context.Context, kwargs map[string]any) error

// Scheduler wires a parsed Schedule to a Task registry and a
// robfig/cron/v3 engine, one trigger per configured job.
type Scheduler struct {
	schedule *Schedule
	registry map[string]Task
	queries  db.Querier
	store    *metrics.CronStore

	engine  *cron.Cron
	running bool
}

// New validates every job's task reference against registry up front
// so a typo in the schedule file fails at startup, not on first fire.
func New(schedule *Schedule, registry map[string]Task, queries db.Querier, store *metrics.CronStore) (*Scheduler, error) {
	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("cron: invalid timezone %q: %w", schedule.Timezone, err)
	}

	for id, job := range schedule.Jobs {
		if _, ok := registry[job.Task]; !ok {
			return nil, fmt.Errorf("cron: job %q references unknown task %q", id, job.Task)
		}
	}

	s := &Scheduler{
		schedule: schedule,
		registry: registry,
		queries:  queries,
		store:    store,
		engine:   cron.New(cron.WithLocation(loc)),
	}
	return s, nil
}

// Start registers every job's trigger and starts the cron engine.
func (s *Scheduler) Start() error {
	for id, job := range s.schedule.Jobs {
		jobID, cfg := id, job
		fn := s.registry[cfg.Task]
		if _, err := s.engine.AddFunc(cfg.Cron, func() {
			s.runJob(context.Background(), jobID, cfg, fn)
		}); err != nil {
			return fmt.Errorf("cron: registering job %q: %w", jobID, err)
		}
	}
	s.engine.Start()
	s.running = true
	logger.Info("cron scheduler started", zap.Int("jobs", len(s.schedule.Jobs)))
	return nil
}

// Stop drains in-flight job goroutines per robfig/cron/v3's own grace
// contract: ctx.Done() fires once every running job function returns.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
	s.running = false
	logger.Info("cron scheduler stopped")
}

// runJob implements §4.9's attempt/backoff/jitter wrapper: attempt
// 1..N, sleeping min(base*multiplier^(attempt-1), maxBackoff)+U(0,
// jitter) between failures, success exits the loop, exhaustion marks
// the run failed. One CronJobRun row is persisted per invocation.
func (s *Scheduler) runJob(ctx context.Context, jobID string, cfg JobConfig, fn Task) {
	started := time.Now()
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		attempts = attempt
		lastErr = fn(ctx, cfg.Kwargs)
		if lastErr == nil {
			break
		}
		logger.Warn("cron job attempt failed",
			zap.String("job_id", jobID), zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt == cfg.MaxAttempts {
			break
		}
		time.Sleep(backoffDelay(cfg, attempt))
	}

	finished := time.Now()
	succeeded := lastErr == nil

	snapshot := metrics.JobSnapshot{
		JobID:          jobID,
		LastRunAt:      finished,
		Attempts:       attempts,
		Succeeded:      succeeded,
		RuntimeSeconds: finished.Sub(started).Seconds(),
	}
	var lastErrStr *string
	if lastErr != nil {
		msg := lastErr.Error()
		lastErrStr = &msg
		snapshot.LastError = msg
	}
	s.store.RecordRun(snapshot)

	if err := s.queries.CreateCronJobRun(ctx, types.CronJobRun{
		ID:             uuid.New(),
		JobID:          jobID,
		Attempts:       attempts,
		Succeeded:      succeeded,
		LastError:      lastErrStr,
		RuntimeSeconds: snapshot.RuntimeSeconds,
		StartedAt:      started,
		FinishedAt:     finished,
	}); err != nil {
		logger.Error("failed to persist cron job run", zap.String("job_id", jobID), zap.Error(err))
	}
}

// RunJobForTest exposes runJob so tests can exercise the
// attempt/backoff/dead-letter path without waiting on a real cron tick.
func (s *Scheduler) RunJobForTest(ctx context.Context, jobID string, cfg JobConfig, fn Task) {
	s.runJob(ctx, jobID, cfg, fn)
}

// RunJob executes one configured job by id immediately, outside the
// cron engine's own ticking. Used by the per-job Lambda shim, where an
// EventBridge rule (not robfig/cron) owns the trigger schedule.
func (s *Scheduler) RunJob(ctx context.Context, jobID string) error {
	cfg, ok := s.schedule.Jobs[jobID]
	if !ok {
		return fmt.Errorf("cron: unknown job %q", jobID)
	}
	fn, ok := s.registry[cfg.Task]
	if !ok {
		return fmt.Errorf("cron: job %q references unknown task %q", jobID, cfg.Task)
	}
	s.runJob(ctx, jobID, cfg, fn)
	return nil
}

func backoffDelay(cfg JobConfig, attempt int) time.Duration {
	base := float64(cfg.BaseBackoffSeconds) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1))
	capped := math.Min(base, float64(cfg.MaxBackoffSeconds))
	jitter := 0.0
	if cfg.JitterSeconds > 0 {
		jitter = rand.Float64() * float64(cfg.JitterSeconds)
	}
	return time.Duration((capped + jitter) * float64(time.Second))
}

// Health is C10's health() endpoint: configured jobs, their metrics
// snapshot, and running/stopped state.
type Health struct {
	Running     bool                    `json:"running"`
	Jobs        map[string]JobConfig    `json:"jobs"`
	LastRuns    []metrics.JobSnapshot   `json:"last_runs"`
}

func (s *Scheduler) Health() Health {
	return Health{
		Running:  s.running,
		Jobs:     s.schedule.Jobs,
		LastRuns: s.store.Snapshot(),
	}
}
