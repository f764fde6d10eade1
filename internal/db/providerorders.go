package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

const providerOrderColumns = `id, provider_id, service_id, service_action, order_id, order_item_id, amount, currency, payload, created_at, updated_at`

func scanProviderOrder(row pgx.Row) (*types.FulfillmentProviderOrder, error) {
	var po types.FulfillmentProviderOrder
	var payloadRaw []byte
	if err := row.Scan(&po.ID, &po.ProviderID, &po.ServiceID, &po.ServiceAction, &po.OrderID, &po.OrderItemID,
		&po.Amount, &po.Currency, &payloadRaw, &po.CreatedAt, &po.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "scan provider order")
	}
	if err := unmarshalJSON(payloadRaw, &po.Payload); err != nil {
		return nil, err
	}
	return &po, nil
}

func (q *Queries) CreateProviderOrder(ctx context.Context, arg CreateProviderOrderParams) (*types.FulfillmentProviderOrder, error) {
	payload, err := marshalJSON(arg.Payload)
	if err != nil {
		return nil, err
	}
	row := q.db.QueryRow(ctx, `
		INSERT INTO fulfillment_provider_orders (id, provider_id, service_id, service_action, order_id, order_item_id, amount, currency, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING `+providerOrderColumns,
		uuid.New(), arg.ProviderID, arg.ServiceID, arg.ServiceAction, arg.OrderID, arg.OrderItemID, arg.Amount, arg.Currency, payload)
	return scanProviderOrder(row)
}

// GetProviderOrderForUpdate row-locks the provider-order so concurrent
// refill/replay/guardrail mutations to the same record serialize, per
// §5's "last-writer-wins on the entire payload" transaction discipline.
func (q *Queries) GetProviderOrderForUpdate(ctx context.Context, id uuid.UUID) (*types.FulfillmentProviderOrder, error) {
	row := q.db.QueryRow(ctx, `SELECT `+providerOrderColumns+` FROM fulfillment_provider_orders WHERE id = $1 FOR UPDATE`, id)
	po, err := scanProviderOrder(row)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, dberrors.NotFound("provider_order", id.String())
	}
	return po, nil
}

func (q *Queries) UpdateProviderOrderPayload(ctx context.Context, id uuid.UUID, payload types.ProviderOrderPayload) error {
	raw, err := marshalJSON(payload)
	if err != nil {
		return err
	}
	tag, err := q.db.Exec(ctx, `UPDATE fulfillment_provider_orders SET payload = $1, updated_at = now() WHERE id = $2`, raw, id)
	if err != nil {
		return dberrors.Wrap(err, "update provider order payload")
	}
	if tag.RowsAffected() == 0 {
		return dberrors.NotFound("provider_order", id.String())
	}
	return nil
}

func (q *Queries) ListProviderOrders(ctx context.Context) ([]types.FulfillmentProviderOrder, error) {
	rows, err := q.db.Query(ctx, `SELECT `+providerOrderColumns+` FROM fulfillment_provider_orders`)
	if err != nil {
		return nil, dberrors.Wrap(err, "list provider orders")
	}
	defer rows.Close()
	return scanProviderOrderRows(rows)
}

// ListProviderOrdersWithDueScheduledReplays filters in Go rather than in
// SQL: the scheduledReplays array lives inside the JSON payload, and this
// repository keeps JSON-shape queries out of the SQL layer, so the
// due-ness check (status scheduled, scheduledFor at or before now) runs
// here on the decoded payload instead of in a jsonb predicate.
// internal/replay applies the same check again to each entry.
func (q *Queries) ListProviderOrdersWithDueScheduledReplays(ctx context.Context, now time.Time) ([]types.FulfillmentProviderOrder, error) {
	all, err := q.ListProviderOrders(ctx)
	if err != nil {
		return nil, err
	}
	var due []types.FulfillmentProviderOrder
	for _, po := range all {
		for _, sr := range po.Payload.ScheduledReplays {
			if sr.Status == types.ScheduledReplayScheduled && !sr.ScheduledFor.After(now) {
				due = append(due, po)
				break
			}
		}
	}
	return due, nil
}

func scanProviderOrderRows(rows pgx.Rows) ([]types.FulfillmentProviderOrder, error) {
	var out []types.FulfillmentProviderOrder
	for rows.Next() {
		var po types.FulfillmentProviderOrder
		var payloadRaw []byte
		if err := rows.Scan(&po.ID, &po.ProviderID, &po.ServiceID, &po.ServiceAction, &po.OrderID, &po.OrderItemID,
			&po.Amount, &po.Currency, &payloadRaw, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan provider order row")
		}
		if err := unmarshalJSON(payloadRaw, &po.Payload); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}
