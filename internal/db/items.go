package db

import (
	"context"

	"github.com/google/uuid"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (*types.OrderItem, error) {
	selectedOptions, err := marshalJSON(arg.SelectedOptions)
	if err != nil {
		return nil, err
	}
	attributes, err := marshalJSON(arg.Attributes)
	if err != nil {
		return nil, err
	}
	platformContext, err := marshalJSON(arg.PlatformContext)
	if err != nil {
		return nil, err
	}

	row := q.db.QueryRow(ctx, `
		INSERT INTO order_items (id, order_id, product_id, product_title, quantity, unit_price, total_price, selected_options, attributes, platform_context)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, order_id, product_id, product_title, quantity, unit_price, total_price, selected_options, attributes, platform_context
	`, uuid.New(), arg.OrderID, arg.ProductID, arg.ProductTitle, arg.Quantity, arg.UnitPrice, arg.TotalPrice,
		selectedOptions, attributes, platformContext)

	return scanOrderItem(row)
}

func scanOrderItem(row interface {
	Scan(dest ...any) error
}) (*types.OrderItem, error) {
	var item types.OrderItem
	var selectedOptionsRaw, attributesRaw, platformContextRaw []byte

	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductTitle, &item.Quantity,
		&item.UnitPrice, &item.TotalPrice, &selectedOptionsRaw, &attributesRaw, &platformContextRaw); err != nil {
		return nil, dberrors.Wrap(err, "scan order item")
	}

	if len(selectedOptionsRaw) > 0 {
		item.SelectedOptions = &types.SelectedOptions{}
		if err := unmarshalJSON(selectedOptionsRaw, item.SelectedOptions); err != nil {
			return nil, err
		}
	}
	if err := unmarshalJSON(attributesRaw, &item.Attributes); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(platformContextRaw, &item.PlatformContext); err != nil {
		return nil, err
	}
	return &item, nil
}

func (q *Queries) GetOrderItem(ctx context.Context, id uuid.UUID) (*types.OrderItem, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, order_id, product_id, product_title, quantity, unit_price, total_price, selected_options, attributes, platform_context
		FROM order_items WHERE id = $1
	`, id)
	return scanOrderItem(row)
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]types.OrderItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, product_id, product_title, quantity, unit_price, total_price, selected_options, attributes, platform_context
		FROM order_items WHERE order_id = $1 ORDER BY product_title
	`, orderID)
	if err != nil {
		return nil, dberrors.Wrap(err, "list order items")
	}
	defer rows.Close()

	var out []types.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}
