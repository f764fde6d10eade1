package db

import (
	"context"

	"github.com/google/uuid"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

// CreateProviderAutomationRun and CreateCronJobRun persist one worker
// pass summary each. These rows are the only durable record of run
// history; nothing in this module reads them back. automation.Snapshot
// is recomputed from provider-order rows, and cron Health reports the
// process-local metrics.CronStore.
func (q *Queries) CreateProviderAutomationRun(ctx context.Context, arg types.ProviderAutomationRun) error {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.db.Exec(ctx, `
		INSERT INTO provider_automation_runs (id, run_type, processed, succeeded, failed, scheduled_backlog, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, arg.RunType, arg.Processed, arg.Succeeded, arg.Failed, arg.ScheduledBacklog, arg.StartedAt, arg.FinishedAt)
	if err != nil {
		return dberrors.Wrap(err, "create provider automation run")
	}
	return nil
}

func (q *Queries) CreateCronJobRun(ctx context.Context, arg types.CronJobRun) error {
	id := arg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.db.Exec(ctx, `
		INSERT INTO cron_job_runs (id, job_id, attempts, succeeded, last_error, runtime_seconds, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, arg.JobID, arg.Attempts, arg.Succeeded, arg.LastError, arg.RuntimeSeconds, arg.StartedAt, arg.FinishedAt)
	if err != nil {
		return dberrors.Wrap(err, "create cron job run")
	}
	return nil
}

func (q *Queries) ListCronJobRuns(ctx context.Context, jobID string, limit int) ([]types.CronJobRun, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, job_id, attempts, succeeded, last_error, runtime_seconds, started_at, finished_at
		FROM cron_job_runs WHERE job_id = $1 ORDER BY started_at DESC LIMIT $2
	`, jobID, limit)
	if err != nil {
		return nil, dberrors.Wrap(err, "list cron job runs")
	}
	defer rows.Close()

	var out []types.CronJobRun
	for rows.Next() {
		var r types.CronJobRun
		if err := rows.Scan(&r.ID, &r.JobID, &r.Attempts, &r.Succeeded, &r.LastError, &r.RuntimeSeconds, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan cron job run")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
