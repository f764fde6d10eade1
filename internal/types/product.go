package types

import "github.com/google/uuid"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is the catalog entry an OrderItem snapshots from at order time.
type Product struct {
	ID               uuid.UUID         `json:"id"`
	Slug             string            `json:"slug"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	BasePrice        Money             `json:"base_price"`
	Currency         string            `json:"currency"`
	Status           ProductStatus     `json:"status"`
	FulfillmentConfig *FulfillmentConfig `json:"fulfillment_config,omitempty"`
}

// FulfillmentConfig carries a configured task graph (§4.5.3), taking
// precedence over the category-default graph when present and non-empty.
type FulfillmentConfig struct {
	Tasks []ConfiguredTask `json:"tasks"`
}

type ConfiguredTask struct {
	Type        TaskType       `json:"type"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Execution   *Execution     `json:"execution,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`

	ScheduleOffsetSeconds *int64  `json:"schedule_offset_seconds,omitempty"`
	ScheduleOffsetMinutes *int64  `json:"schedule_offset_minutes,omitempty"`
	ScheduleOffsetHours   *int64  `json:"schedule_offset_hours,omitempty"`
	ScheduledAt           *string `json:"scheduled_at,omitempty"`

	MaxRetries *int `json:"max_retries,omitempty"`
}

// Execution describes how a task or provider endpoint performs its call.
// URL, Headers and Body may contain `{{ expr }}` tokens resolved by the
// template renderer at execution time, not at materialization time (S2);
// Kind and Method are used as given.
type Execution struct {
	Kind             string            `json:"kind"` // "http" is the only kind currently supported
	Method           string            `json:"method,omitempty"`
	URL              string            `json:"url"`
	Headers          map[string]any    `json:"headers,omitempty"`
	Body             any               `json:"body,omitempty"`
	EnvironmentKeys  []string          `json:"environment_keys,omitempty"`
	SuccessStatuses  []int             `json:"success_statuses,omitempty"`
	SuccessStatusMin *int              `json:"success_status_min,omitempty"`
	SuccessStatusMax *int              `json:"success_status_max,omitempty"`
	TimeoutSeconds   *int              `json:"timeout_seconds,omitempty"`
}
