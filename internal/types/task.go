package types

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeInstagramSetup        TaskType = "instagram_setup"
	TaskTypeAnalyticsCollection   TaskType = "analytics_collection"
	TaskTypeFollowerGrowth        TaskType = "follower_growth"
	TaskTypeEngagementBoost       TaskType = "engagement_boost"
	TaskTypeContentPromotion      TaskType = "content_promotion"
	TaskTypeCampaignOptimization  TaskType = "campaign_optimization"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

const DefaultMaxRetries = 3

// TaskPayload is the JSON payload a FulfillmentTask carries: an execution
// descriptor for templated tasks plus the context snapshot frozen at
// creation time. The snapshot holds order and item fields only; the
// processor adds product, task and env values at execution time.
type TaskPayload struct {
	Execution *Execution     `json:"execution,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// FulfillmentTask is a unit of work against one order item.
type FulfillmentTask struct {
	ID           uuid.UUID      `json:"id"`
	OrderItemID  uuid.UUID      `json:"order_item_id"`
	TaskType     TaskType       `json:"task_type"`
	Status       TaskStatus     `json:"status"`
	Title        string         `json:"title"`
	Description  *string        `json:"description,omitempty"`
	Payload      *TaskPayload   `json:"payload,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	RetryCount   int            `json:"retry_count"`
	MaxRetries   int            `json:"max_retries"`
	ScheduledAt  *time.Time     `json:"scheduled_at,omitempty"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// IsDeadLettered reports whether the task's retry budget is exhausted: it
// failed while retryCount already equaled maxRetries.
func (t *FulfillmentTask) IsDeadLettered() bool {
	return t.Status == TaskStatusFailed && t.RetryCount >= t.MaxRetries
}
