package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

const paymentColumns = `id, order_id, provider, provider_reference, status, amount, currency, failure_reason, captured_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*types.Payment, error) {
	var p types.Payment
	if err := row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.ProviderReference, &p.Status, &p.Amount, &p.Currency,
		&p.FailureReason, &p.CapturedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, dberrors.Wrap(err, "scan payment")
	}
	return &p, nil
}

func (q *Queries) GetPaymentByProviderReference(ctx context.Context, provider, reference string) (*types.Payment, error) {
	row := q.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider = $1 AND provider_reference = $2`, provider, reference)
	return scanPayment(row)
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (*types.Payment, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, provider, provider_reference, status, amount, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+paymentColumns,
		uuid.New(), arg.OrderID, arg.Provider, arg.ProviderReference, arg.Status, arg.Amount, arg.Currency)
	return scanPayment(row)
}

func (q *Queries) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status types.PaymentStatus, failureReason *string, capturedAt *time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE payments SET status = $1, failure_reason = $2, captured_at = $3, updated_at = now() WHERE id = $4
	`, status, failureReason, capturedAt, id)
	if err != nil {
		return dberrors.Wrap(err, "update payment status")
	}
	if tag.RowsAffected() == 0 {
		return dberrors.NotFound("payment", id.String())
	}
	return nil
}
