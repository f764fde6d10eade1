package types

import (
	"time"

	"github.com/google/uuid"
)

type AutomationRunType string

const (
	AutomationRunReplay        AutomationRunType = "replay"
	AutomationRunAlert         AutomationRunType = "alert"
	AutomationRunBalanceRefresh AutomationRunType = "balance_refresh"
)

// ProviderAutomationRun is a persisted summary of one C4/C7 worker pass.
// It is the durable run history; the automation snapshot is recomputed
// from provider-order rows, not from these rows.
type ProviderAutomationRun struct {
	ID               uuid.UUID         `json:"id"`
	RunType          AutomationRunType `json:"run_type"`
	Processed        int               `json:"processed"`
	Succeeded        int               `json:"succeeded"`
	Failed           int               `json:"failed"`
	ScheduledBacklog int               `json:"scheduled_backlog"`
	StartedAt        time.Time         `json:"started_at"`
	FinishedAt       time.Time         `json:"finished_at"`
}

// CronJobRun is a persisted summary of one C10 job execution, including
// every retry attempt.
type CronJobRun struct {
	ID              uuid.UUID  `json:"id"`
	JobID           string     `json:"job_id"`
	Attempts        int        `json:"attempts"`
	Succeeded       bool       `json:"succeeded"`
	LastError       *string    `json:"last_error,omitempty"`
	RuntimeSeconds  float64    `json:"runtime_seconds"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      time.Time  `json:"finished_at"`
}
