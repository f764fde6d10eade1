package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

// NextOrderNumber assigns "SM" + a zero-padded 6-digit sequence, backed by
// a dedicated Postgres sequence so concurrent order creation never
// collides.
func (q *Queries) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	err := q.db.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq)
	if err != nil {
		return "", dberrors.Wrap(err, "next order number")
	}
	return fmt.Sprintf("SM%06d", seq), nil
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (*types.Order, error) {
	orderNumber, err := q.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, user_id, status, source, currency, subtotal, tax, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING id, order_number, user_id, status, source, currency, subtotal, tax, total, notes, created_at, updated_at
	`, uuid.New(), orderNumber, arg.UserID, types.OrderStatusPending, arg.Source, arg.Currency, arg.Subtotal, arg.Tax, arg.Total, arg.Notes)

	return scanOrder(row)
}

func scanOrder(row pgx.Row) (*types.Order, error) {
	var o types.Order
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Source, &o.Currency,
		&o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "scan order")
	}
	return &o, nil
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (*types.Order, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, order_number, user_id, status, source, currency, subtotal, tax, total, notes, created_at, updated_at
		FROM orders WHERE id = $1
	`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, dberrors.NotFound("order", id.String())
	}
	return order, nil
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]types.Order, error) {
	sql := `
		SELECT id, order_number, user_id, status, source, currency, subtotal, tax, total, notes, created_at, updated_at
		FROM orders
	`
	args := []any{}
	if arg.StatusFilter != nil {
		sql += fmt.Sprintf(" WHERE status = $%d", len(args)+1)
		args = append(args, *arg.StatusFilter)
	}
	sql += " ORDER BY created_at DESC"
	sql += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, arg.Skip, arg.Limit)

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberrors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var out []types.Order
	for rows.Next() {
		var o types.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Source, &o.Currency,
			&o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan order row")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (q *Queries) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]types.Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_number, user_id, status, source, currency, subtotal, tax, total, notes, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, dberrors.Wrap(err, "list orders by user")
	}
	defer rows.Close()

	var out []types.Order
	for rows.Next() {
		var o types.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Source, &o.Currency,
			&o.Subtotal, &o.Tax, &o.Total, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, dberrors.Wrap(err, "scan order row")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status types.OrderStatus) error {
	tag, err := q.db.Exec(ctx, `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return dberrors.Wrap(err, "update order status")
	}
	if tag.RowsAffected() == 0 {
		return dberrors.NotFound("order", id.String())
	}
	return nil
}
