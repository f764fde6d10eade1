package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

func (q *Queries) GetProvider(ctx context.Context, id uuid.UUID) (*types.FulfillmentProvider, error) {
	var p types.FulfillmentProvider
	var metadataRaw []byte
	err := q.db.QueryRow(ctx, `
		SELECT id, name, metadata_json FROM fulfillment_providers WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &metadataRaw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, dberrors.NotFound("provider", id.String())
		}
		return nil, dberrors.Wrap(err, "get provider")
	}
	if err := unmarshalJSON(metadataRaw, &p.MetadataJSON); err != nil {
		return nil, err
	}
	return &p, nil
}

func (q *Queries) GetService(ctx context.Context, id uuid.UUID) (*types.FulfillmentService, error) {
	var s types.FulfillmentService
	var metadataRaw []byte
	err := q.db.QueryRow(ctx, `
		SELECT id, name, metadata FROM fulfillment_services WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &metadataRaw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, dberrors.NotFound("service", id.String())
		}
		return nil, dberrors.Wrap(err, "get service")
	}
	if err := unmarshalJSON(metadataRaw, &s.Metadata); err != nil {
		return nil, err
	}
	return &s, nil
}
