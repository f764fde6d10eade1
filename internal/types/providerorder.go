package types

import (
	"time"

	"github.com/google/uuid"
)

// RefillEntry is one appended entry of ProviderOrderPayload.Refills, per
// §4.3.4.
type RefillEntry struct {
	ID          uuid.UUID      `json:"id"`
	Amount      Money          `json:"amount"`
	Currency    string         `json:"currency"`
	PerformedAt time.Time      `json:"performedAt"`
	Response    map[string]any `json:"response,omitempty"`
}

// RuleMetadata is the shallow snapshot of the rule that produced an
// override, captured on every replay entry so dashboards can reconstruct
// the decision without re-resolving rules against current catalog state.
type RuleMetadata struct {
	ID          string                 `json:"id"`
	Label       string                 `json:"label,omitempty"`
	Description string                 `json:"description,omitempty"`
	Priority    int                    `json:"priority"`
	Conditions  []ServiceRuleCondition `json:"conditions,omitempty"`
	Overrides   map[string]any         `json:"overrides,omitempty"`
}

type ReplayStatus string

const (
	ReplayStatusExecuted ReplayStatus = "executed"
	ReplayStatusFailed   ReplayStatus = "failed"
)

// ReplayEntry is one appended entry of ProviderOrderPayload.Replays, per
// the "immediate" branch of §4.3.5.
type ReplayEntry struct {
	ID              uuid.UUID      `json:"id"`
	RequestedAmount Money          `json:"requestedAmount"`
	Currency        string         `json:"currency"`
	PerformedAt     time.Time      `json:"performedAt"`
	Status          ReplayStatus   `json:"status"`
	Response        map[string]any `json:"response,omitempty"`
	ErrorPreview    string         `json:"errorPreview,omitempty"`
	RuleIDs         []string       `json:"ruleIds,omitempty"`
	RuleMetadata    []RuleMetadata `json:"ruleMetadata,omitempty"`
}

type ScheduledReplayStatus string

const (
	ScheduledReplayScheduled ScheduledReplayStatus = "scheduled"
	ScheduledReplayExecuted  ScheduledReplayStatus = "executed"
	ScheduledReplayFailed    ScheduledReplayStatus = "failed"
)

// ScheduledReplayEntry is one appended entry of
// ProviderOrderPayload.ScheduledReplays, per the "scheduled" branch of
// §4.3.5. Status transitions exactly once, scheduled -> {executed, failed};
// that write is the fence preventing a crash-and-retry from double-firing
// the replay (§4.4).
type ScheduledReplayEntry struct {
	ID              uuid.UUID             `json:"id"`
	RequestedAmount Money                 `json:"requestedAmount"`
	Currency        string                `json:"currency"`
	ScheduledFor    time.Time             `json:"scheduledFor"`
	Status          ScheduledReplayStatus `json:"status"`
	Response        map[string]any        `json:"response,omitempty"`
	ErrorPreview    string                `json:"errorPreview,omitempty"`
	RuleIDs         []string              `json:"ruleIds,omitempty"`
	RuleMetadata    []RuleMetadata        `json:"ruleMetadata,omitempty"`
	ExecutedAt      *time.Time            `json:"executedAt,omitempty"`
}

type GuardrailClassification string

const (
	GuardrailPass GuardrailClassification = "pass"
	GuardrailWarn GuardrailClassification = "warn"
	GuardrailFail GuardrailClassification = "fail"
	GuardrailIdle GuardrailClassification = "idle"
)

// GuardrailSnapshot is the most recent margin evaluation for a
// provider-order, per §4.3.6.
type GuardrailSnapshot struct {
	MarginValue    Money                    `json:"marginValue"`
	MarginPercent  float64                  `json:"marginPercent"`
	Classification GuardrailClassification  `json:"classification"`
	EvaluatedAt    time.Time                `json:"evaluatedAt"`
}

// ProviderOrderPayload is the typed view of FulfillmentProviderOrder's
// opaque JSON payload bag: append-mostly history plus the most recent
// snapshots, round-tripping through json.Marshal/Unmarshal so the stored
// column stays wire-compatible with dashboards that read the raw JSON
// directly (§9 Design Notes, "Opaque provider-order payload").
type ProviderOrderPayload struct {
	ProviderOrderID  string                 `json:"providerOrderId,omitempty"`
	ProviderResponse map[string]any         `json:"providerResponse,omitempty"`
	Refills          []RefillEntry          `json:"refills,omitempty"`
	Replays          []ReplayEntry          `json:"replays,omitempty"`
	ScheduledReplays []ScheduledReplayEntry `json:"scheduledReplays,omitempty"`
	Guardrails       *GuardrailSnapshot     `json:"guardrails,omitempty"`
	ServiceRules     []RuleMetadata         `json:"serviceRules,omitempty"`
}

// FulfillmentProviderOrder is one row per add-on dispatched to a provider.
type FulfillmentProviderOrder struct {
	ID            uuid.UUID            `json:"id"`
	ProviderID    uuid.UUID            `json:"provider_id"`
	ServiceID     uuid.UUID            `json:"service_id"`
	ServiceAction string               `json:"service_action"`
	OrderID       uuid.UUID            `json:"order_id"`
	OrderItemID   uuid.UUID            `json:"order_item_id"`
	Amount        Money                `json:"amount"`
	Currency      string               `json:"currency"`
	Payload       ProviderOrderPayload `json:"payload"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
