// Package metrics is the Observability Store (C12): in-process counters
// each worker updates as it runs, read back by the health/status HTTP
// surface. Per §9's resolved open question, these are a live snapshot
// of the current process only — the durable history lives in C1's
// provider_automation_runs and cron_job_runs tables, not here.
package metrics

import (
	"sync"
	"time"
)

// ProcessorSnapshot is C6's per-iteration and per-task-type bucket view.
type ProcessorSnapshot struct {
	LastRunStartedAt  *time.Time               `json:"last_run_started_at,omitempty"`
	LastRunFinishedAt *time.Time               `json:"last_run_finished_at,omitempty"`
	LastRunDurationMS int64                    `json:"last_run_duration_ms"`
	LastLoopError     string                   `json:"last_loop_error,omitempty"`
	TasksProcessed    int64                    `json:"tasks_processed"`
	TasksFailed       int64                    `json:"tasks_failed"`
	TasksRetried      int64                    `json:"tasks_retried"`
	TasksDeadLettered int64                    `json:"tasks_dead_lettered"`
	LoopErrors        int64                    `json:"loop_errors"`
	ByTaskType        map[string]TaskTypeStats `json:"by_task_type"`
}

type TaskTypeStats struct {
	Processed    int64 `json:"processed"`
	Failed       int64 `json:"failed"`
	Retried      int64 `json:"retried"`
	DeadLettered int64 `json:"dead_lettered"`
}

// ProcessorStore accumulates C6's counters across the life of the
// process. All methods are safe for concurrent use, though the
// processor loop itself is single-worker and never calls them
// concurrently with itself.
type ProcessorStore struct {
	mu       sync.Mutex
	snapshot ProcessorSnapshot
}

func NewProcessorStore() *ProcessorStore {
	return &ProcessorStore{snapshot: ProcessorSnapshot{ByTaskType: make(map[string]TaskTypeStats)}}
}

func (p *ProcessorStore) RecordRunStart(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.LastRunStartedAt = &t
}

func (p *ProcessorStore) RecordRunFinish(t time.Time, loopErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.LastRunFinishedAt = &t
	if p.snapshot.LastRunStartedAt != nil {
		p.snapshot.LastRunDurationMS = t.Sub(*p.snapshot.LastRunStartedAt).Milliseconds()
	}
	if loopErr != nil {
		p.snapshot.LastLoopError = loopErr.Error()
		p.snapshot.LoopErrors++
	} else {
		p.snapshot.LastLoopError = ""
	}
}

func (p *ProcessorStore) RecordProcessed(taskType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.TasksProcessed++
	s := p.snapshot.ByTaskType[taskType]
	s.Processed++
	p.snapshot.ByTaskType[taskType] = s
}

func (p *ProcessorStore) RecordFailed(taskType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.TasksFailed++
	s := p.snapshot.ByTaskType[taskType]
	s.Failed++
	p.snapshot.ByTaskType[taskType] = s
}

func (p *ProcessorStore) RecordRetried(taskType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.TasksRetried++
	s := p.snapshot.ByTaskType[taskType]
	s.Retried++
	p.snapshot.ByTaskType[taskType] = s
}

func (p *ProcessorStore) RecordDeadLettered(taskType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot.TasksDeadLettered++
	s := p.snapshot.ByTaskType[taskType]
	s.DeadLettered++
	p.snapshot.ByTaskType[taskType] = s
}

func (p *ProcessorStore) Snapshot() ProcessorSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	byType := make(map[string]TaskTypeStats, len(p.snapshot.ByTaskType))
	for k, v := range p.snapshot.ByTaskType {
		byType[k] = v
	}
	out := p.snapshot
	out.ByTaskType = byType
	return out
}

// JobSnapshot is C10's per-job health view.
type JobSnapshot struct {
	JobID          string    `json:"job_id"`
	LastRunAt      time.Time `json:"last_run_at"`
	Attempts       int       `json:"attempts"`
	Succeeded      bool      `json:"succeeded"`
	LastError      string    `json:"last_error,omitempty"`
	RuntimeSeconds float64   `json:"runtime_seconds"`
}

// CronStore tracks the most recent run of each registered job, read
// back by C10's health() endpoint.
type CronStore struct {
	mu   sync.Mutex
	jobs map[string]JobSnapshot
}

func NewCronStore() *CronStore {
	return &CronStore{jobs: make(map[string]JobSnapshot)}
}

func (c *CronStore) RecordRun(snapshot JobSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[snapshot.JobID] = snapshot
}

func (c *CronStore) Snapshot() []JobSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]JobSnapshot, 0, len(c.jobs))
	for _, s := range c.jobs {
		out = append(out, s)
	}
	return out
}
