package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smplat/fulfillment/internal/types"
)

// GetNotificationPreference returns the effective preference row for a
// user, defaulting every flag to true (opt-in-to-everything) when the
// user has never touched their settings — matching the teacher's
// pattern of treating an absent preferences row as "notify by default".
func (q *Queries) GetNotificationPreference(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error) {
	var p types.NotificationPreference
	p.UserID = userID
	err := q.db.QueryRow(ctx, `
		SELECT order_updates, payment_updates, fulfillment_alerts, marketing_messages, billing_alerts
		FROM notification_preferences WHERE user_id = $1
	`, userID).Scan(&p.OrderUpdates, &p.PaymentUpdates, &p.FulfillmentAlerts, &p.MarketingMessages, &p.BillingAlerts)
	if err != nil {
		if err == pgx.ErrNoRows {
			def := types.DefaultNotificationPreference(userID)
			return &def, nil
		}
		return nil, err
	}
	return &p, nil
}
