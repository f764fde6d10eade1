package db

import (
	"context"

	"github.com/google/uuid"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

func (q *Queries) InsertOrderStateEvent(ctx context.Context, arg InsertOrderStateEventParams) error {
	metadata, err := marshalJSON(arg.Metadata)
	if err != nil {
		return err
	}
	_, err = q.db.Exec(ctx, `
		INSERT INTO order_state_events (id, order_id, event_type, actor_type, actor_id, actor_label, from_status, to_status, notes, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	`, uuid.New(), arg.OrderID, arg.EventType, arg.ActorType, arg.ActorID, arg.ActorLabel, arg.FromStatus, arg.ToStatus, arg.Notes, metadata)
	if err != nil {
		return dberrors.Wrap(err, "insert order state event")
	}
	return nil
}

func (q *Queries) ListOrderStateEvents(ctx context.Context, orderID uuid.UUID) ([]types.OrderStateEvent, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, event_type, actor_type, actor_id, actor_label, from_status, to_status, notes, metadata, created_at
		FROM order_state_events WHERE order_id = $1 ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, dberrors.Wrap(err, "list order state events")
	}
	defer rows.Close()

	var out []types.OrderStateEvent
	for rows.Next() {
		var e types.OrderStateEvent
		var metadataRaw []byte
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.ActorType, &e.ActorID, &e.ActorLabel,
			&e.FromStatus, &e.ToStatus, &e.Notes, &metadataRaw, &e.CreatedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan order state event")
		}
		if err := unmarshalJSON(metadataRaw, &e.Metadata); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
