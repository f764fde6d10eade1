package types

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	EventTypeStateChange      OrderEventType = "state_change"
	EventTypeNote             OrderEventType = "note"
	EventTypeRefillRequested  OrderEventType = "refill_requested"
	EventTypeRefillCompleted  OrderEventType = "refill_completed"
	EventTypeRefundRequested  OrderEventType = "refund_requested"
	EventTypeRefundCompleted  OrderEventType = "refund_completed"
	EventTypeReplayScheduled  OrderEventType = "replay_scheduled"
	EventTypeReplayExecuted   OrderEventType = "replay_executed"
	EventTypeAutomationAlert  OrderEventType = "automation_alert"
)

type ActorType string

const (
	ActorSystem ActorType = "system"
	ActorUser   ActorType = "user"
	ActorAdmin  ActorType = "admin"
)

// OrderStateEvent is an append-only audit row. Rows are immutable once
// inserted; see §3 Ownership.
type OrderStateEvent struct {
	ID         uuid.UUID      `json:"id"`
	OrderID    uuid.UUID      `json:"order_id"`
	EventType  OrderEventType `json:"event_type"`
	ActorType  ActorType      `json:"actor_type"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	ActorLabel *string        `json:"actor_label,omitempty"`
	FromStatus *OrderStatus   `json:"from_status,omitempty"`
	ToStatus   *OrderStatus   `json:"to_status,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// WebhookEvent is the dedup ledger row backing idempotent payment webhook
// ingestion (C9). Unique on (provider, external_id).
type WebhookEvent struct {
	ID                 uuid.UUID      `json:"id"`
	WorkspaceID        *uuid.UUID     `json:"workspace_id,omitempty"`
	Provider            string         `json:"provider"`
	ExternalID          string         `json:"external_id"`
	EventType           string         `json:"event_type"`
	PayloadHash         string         `json:"payload_hash"`
	Data                map[string]any `json:"data,omitempty"`
	ProcessingAttempts int            `json:"processing_attempts"`
	ProcessedAt         *time.Time     `json:"processed_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// ProcessorEvent additionally tracks replay bookkeeping; unique on
// (provider, external_id) and (provider, payload_hash).
type ProcessorEvent struct {
	ID               uuid.UUID  `json:"id"`
	Provider         string     `json:"provider"`
	ExternalID       string     `json:"external_id"`
	PayloadHash      string     `json:"payload_hash"`
	ReplayRequested  bool       `json:"replay_requested"`
	ReplayAttempts   int        `json:"replay_attempts"`
	LastReplayError  *string    `json:"last_replay_error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment tracks one provider payment intent against an order. Unique on
// provider_reference.
type Payment struct {
	ID                uuid.UUID     `json:"id"`
	OrderID           uuid.UUID     `json:"order_id"`
	Provider          string        `json:"provider"`
	ProviderReference string        `json:"provider_reference"`
	Status            PaymentStatus `json:"status"`
	Amount            Money         `json:"amount"`
	Currency          string        `json:"currency"`
	FailureReason     *string       `json:"failure_reason,omitempty"`
	CapturedAt        *time.Time    `json:"captured_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// NotificationPreference gates which notification kinds reach a given
// user, per §4.10.
type NotificationPreference struct {
	UserID              uuid.UUID `json:"user_id"`
	OrderUpdates        bool      `json:"order_updates"`
	PaymentUpdates      bool      `json:"payment_updates"`
	FulfillmentAlerts   bool      `json:"fulfillment_alerts"`
	MarketingMessages   bool      `json:"marketing_messages"`
	BillingAlerts       bool      `json:"billing_alerts"`
}

// DefaultNotificationPreference is the opt-in-to-everything default new
// users get before they ever touch their settings.
func DefaultNotificationPreference(userID uuid.UUID) NotificationPreference {
	return NotificationPreference{
		UserID:            userID,
		OrderUpdates:      true,
		PaymentUpdates:    true,
		FulfillmentAlerts: true,
		MarketingMessages: true,
		BillingAlerts:     true,
	}
}
