package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

// GetWebhookEventByProviderEventID is the dedup lookup Payment Ingestion
// (C9) performs before doing any side effect, grounded on the teacher's
// checkAndLogWebhookEvent (webhook-processor/cmd/main.go). Returns (nil,
// nil) — not an error — when no prior row exists, matching a dedup-check
// call site rather than a strict lookup.
func (q *Queries) GetWebhookEventByProviderEventID(ctx context.Context, provider, externalID string) (*types.WebhookEvent, error) {
	var e types.WebhookEvent
	var dataRaw []byte
	err := q.db.QueryRow(ctx, `
		SELECT id, workspace_id, provider, external_id, event_type, payload_hash, data, processing_attempts, processed_at, created_at
		FROM webhook_events WHERE provider = $1 AND external_id = $2
	`, provider, externalID).Scan(&e.ID, &e.WorkspaceID, &e.Provider, &e.ExternalID, &e.EventType, &e.PayloadHash,
		&dataRaw, &e.ProcessingAttempts, &e.ProcessedAt, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "get webhook event")
	}
	if err := unmarshalJSON(dataRaw, &e.Data); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateWebhookEvent inserts the dedup ledger row. The caller is expected
// to run this in the same transaction as the event's business side
// effects — "insert-then-commit" per §5 — so a crash between the two
// never leaves a side effect without its fence.
func (q *Queries) CreateWebhookEvent(ctx context.Context, arg CreateWebhookEventParams) (*types.WebhookEvent, error) {
	data, err := marshalJSON(arg.Data)
	if err != nil {
		return nil, err
	}
	row := q.db.QueryRow(ctx, `
		INSERT INTO webhook_events (id, workspace_id, provider, external_id, event_type, payload_hash, data, processing_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, now())
		RETURNING id, workspace_id, provider, external_id, event_type, payload_hash, data, processing_attempts, processed_at, created_at
	`, uuid.New(), arg.WorkspaceID, arg.Provider, arg.ExternalID, arg.EventType, arg.PayloadHash, data)

	var e types.WebhookEvent
	var dataRaw []byte
	if err := row.Scan(&e.ID, &e.WorkspaceID, &e.Provider, &e.ExternalID, &e.EventType, &e.PayloadHash,
		&dataRaw, &e.ProcessingAttempts, &e.ProcessedAt, &e.CreatedAt); err != nil {
		return nil, dberrors.Wrap(err, "create webhook event")
	}
	if err := unmarshalJSON(dataRaw, &e.Data); err != nil {
		return nil, err
	}
	return &e, nil
}
