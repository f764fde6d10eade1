package fulfillment

import (
	"context"
	"time"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/types"
)

// ScheduleRetry implements §4.5.5: push a task back to pending, bump its
// retry count, clear its prior run's timestamps and result, and push its
// scheduled time out by delay.
func (s *Service) ScheduleRetry(ctx context.Context, task *types.FulfillmentTask, delay time.Duration, errorMessage string) error {
	base := time.Now()
	if task.ScheduledAt != nil && task.ScheduledAt.After(base) {
		base = *task.ScheduledAt
	}
	nextScheduledAt := base.Add(delay)

	if err := s.queries.UpdateTask(ctx, db.UpdateTaskParams{
		ID:           task.ID,
		Status:       types.TaskStatusPending,
		Result:       nil,
		ErrorMessage: &errorMessage,
		RetryCount:   task.RetryCount + 1,
		ScheduledAt:  &nextScheduledAt,
		StartedAt:    nil,
		CompletedAt:  nil,
	}); err != nil {
		return err
	}

	task.Status = types.TaskStatusPending
	task.Result = nil
	task.ErrorMessage = &errorMessage
	task.RetryCount++
	task.ScheduledAt = &nextScheduledAt
	task.StartedAt = nil
	task.CompletedAt = nil

	if s.notifier == nil {
		return nil
	}
	return s.notifier.NotifyFulfillmentRetry(ctx, task, errorMessage)
}
