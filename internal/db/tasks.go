package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) (*types.FulfillmentTask, error) {
	payload, err := marshalJSON(arg.Payload)
	if err != nil {
		return nil, err
	}
	maxRetries := arg.MaxRetries
	if maxRetries == 0 {
		maxRetries = types.DefaultMaxRetries
	}

	row := q.db.QueryRow(ctx, `
		INSERT INTO fulfillment_tasks (id, order_item_id, task_type, status, title, description, payload, retry_count, max_retries, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		RETURNING id, order_item_id, task_type, status, title, description, payload, result, error_message, retry_count, max_retries, scheduled_at, started_at, completed_at
	`, uuid.New(), arg.OrderItemID, arg.TaskType, types.TaskStatusPending, arg.Title, arg.Description, payload, maxRetries, arg.ScheduledAt)

	return scanTask(row)
}

func scanTask(row pgx.Row) (*types.FulfillmentTask, error) {
	var t types.FulfillmentTask
	var payloadRaw, resultRaw []byte
	if err := row.Scan(&t.ID, &t.OrderItemID, &t.TaskType, &t.Status, &t.Title, &t.Description,
		&payloadRaw, &resultRaw, &t.ErrorMessage, &t.RetryCount, &t.MaxRetries,
		&t.ScheduledAt, &t.StartedAt, &t.CompletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "scan task")
	}
	if len(payloadRaw) > 0 {
		t.Payload = &types.TaskPayload{}
		if err := unmarshalJSON(payloadRaw, t.Payload); err != nil {
			return nil, err
		}
	}
	if err := unmarshalJSON(resultRaw, &t.Result); err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *Queries) GetTask(ctx context.Context, id uuid.UUID) (*types.FulfillmentTask, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, order_item_id, task_type, status, title, description, payload, result, error_message, retry_count, max_retries, scheduled_at, started_at, completed_at
		FROM fulfillment_tasks WHERE id = $1
	`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, dberrors.NotFound("task", id.String())
	}
	return t, nil
}

// ListDueTasks fetches up to limit pending tasks whose scheduled_at has
// passed, oldest first, row-locking them with FOR UPDATE SKIP LOCKED so
// two concurrent processor instances never claim the same task — the
// parallel-threads worker-cooperation design spec.md §9 flags as an
// option.
func (q *Queries) ListDueTasks(ctx context.Context, limit int) ([]types.FulfillmentTask, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_item_id, task_type, status, title, description, payload, result, error_message, retry_count, max_retries, scheduled_at, started_at, completed_at
		FROM fulfillment_tasks
		WHERE status = $1 AND scheduled_at <= now()
		ORDER BY scheduled_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, types.TaskStatusPending, limit)
	if err != nil {
		return nil, dberrors.Wrap(err, "list due tasks")
	}
	defer rows.Close()

	var out []types.FulfillmentTask
	for rows.Next() {
		var t types.FulfillmentTask
		var payloadRaw, resultRaw []byte
		if err := rows.Scan(&t.ID, &t.OrderItemID, &t.TaskType, &t.Status, &t.Title, &t.Description,
			&payloadRaw, &resultRaw, &t.ErrorMessage, &t.RetryCount, &t.MaxRetries,
			&t.ScheduledAt, &t.StartedAt, &t.CompletedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan due task row")
		}
		if len(payloadRaw) > 0 {
			t.Payload = &types.TaskPayload{}
			if err := unmarshalJSON(payloadRaw, t.Payload); err != nil {
				return nil, err
			}
		}
		if err := unmarshalJSON(resultRaw, &t.Result); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *Queries) ListTasksByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]types.FulfillmentTask, error) {
	return q.listTasksBy(ctx, "order_item_id", orderItemID)
}

func (q *Queries) ListTasksByOrder(ctx context.Context, orderID uuid.UUID) ([]types.FulfillmentTask, error) {
	rows, err := q.db.Query(ctx, `
		SELECT t.id, t.order_item_id, t.task_type, t.status, t.title, t.description, t.payload, t.result, t.error_message, t.retry_count, t.max_retries, t.scheduled_at, t.started_at, t.completed_at
		FROM fulfillment_tasks t
		JOIN order_items oi ON oi.id = t.order_item_id
		WHERE oi.order_id = $1
		ORDER BY t.scheduled_at ASC
	`, orderID)
	if err != nil {
		return nil, dberrors.Wrap(err, "list tasks by order")
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func (q *Queries) listTasksBy(ctx context.Context, column string, value any) ([]types.FulfillmentTask, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_item_id, task_type, status, title, description, payload, result, error_message, retry_count, max_retries, scheduled_at, started_at, completed_at
		FROM fulfillment_tasks WHERE `+column+` = $1
		ORDER BY scheduled_at ASC
	`, value)
	if err != nil {
		return nil, dberrors.Wrap(err, "list tasks")
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func scanTaskRows(rows pgx.Rows) ([]types.FulfillmentTask, error) {
	var out []types.FulfillmentTask
	for rows.Next() {
		var t types.FulfillmentTask
		var payloadRaw, resultRaw []byte
		if err := rows.Scan(&t.ID, &t.OrderItemID, &t.TaskType, &t.Status, &t.Title, &t.Description,
			&payloadRaw, &resultRaw, &t.ErrorMessage, &t.RetryCount, &t.MaxRetries,
			&t.ScheduledAt, &t.StartedAt, &t.CompletedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan task row")
		}
		if len(payloadRaw) > 0 {
			t.Payload = &types.TaskPayload{}
			if err := unmarshalJSON(payloadRaw, t.Payload); err != nil {
				return nil, err
			}
		}
		if err := unmarshalJSON(resultRaw, &t.Result); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) error {
	result, err := marshalJSON(arg.Result)
	if err != nil {
		return err
	}
	tag, err := q.db.Exec(ctx, `
		UPDATE fulfillment_tasks
		SET status = $1, result = $2, error_message = $3, retry_count = $4, scheduled_at = $5, started_at = $6, completed_at = $7
		WHERE id = $8
	`, arg.Status, result, arg.ErrorMessage, arg.RetryCount, arg.ScheduledAt, arg.StartedAt, arg.CompletedAt, arg.ID)
	if err != nil {
		return dberrors.Wrap(err, "update task")
	}
	if tag.RowsAffected() == 0 {
		return dberrors.NotFound("task", arg.ID.String())
	}
	return nil
}
