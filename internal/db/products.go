package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	var fulfillmentConfigRaw []byte
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Category, &p.BasePrice, &p.Currency, &p.Status, &fulfillmentConfigRaw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "scan product")
	}
	if len(fulfillmentConfigRaw) > 0 {
		p.FulfillmentConfig = &types.FulfillmentConfig{}
		if err := unmarshalJSON(fulfillmentConfigRaw, p.FulfillmentConfig); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, slug, title, category, base_price, currency, status, fulfillment_config
		FROM products WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, dberrors.NotFound("product", id.String())
	}
	return p, nil
}

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (*types.Product, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, slug, title, category, base_price, currency, status, fulfillment_config
		FROM products WHERE slug = $1
	`, slug)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, dberrors.NotFound("product", slug)
	}
	return p, nil
}
