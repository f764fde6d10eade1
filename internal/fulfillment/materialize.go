package fulfillment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

// MaterializeTasks builds the task graph for one order item, per §4.5.2
// and §4.5.3: product.fulfillmentConfig.tasks[] takes precedence when
// present, else a category default graph. Unknown task types are
// skipped with a warning; if every configured entry is skipped, the
// generic default is emitted instead.
func (s *Service) MaterializeTasks(ctx context.Context, order *types.Order, item *types.OrderItem) ([]types.FulfillmentTask, error) {
	var category string
	var configured []types.ConfiguredTask

	if item.ProductID != nil {
		product, err := s.queries.GetProduct(ctx, *item.ProductID)
		if err == nil {
			category = product.Category
			if product.FulfillmentConfig != nil && len(product.FulfillmentConfig.Tasks) > 0 {
				configured = product.FulfillmentConfig.Tasks
			}
		}
	}
	if configured == nil {
		configured = categoryDefaultTasks(category)
	}

	baseCtx := buildTaskContext(order, item)

	created := s.createConfiguredTasks(ctx, item, configured, baseCtx)
	if len(created) == 0 {
		created = s.createConfiguredTasks(ctx, item, categoryDefaultTasks(""), baseCtx)
	}
	return created, nil
}

func (s *Service) createConfiguredTasks(ctx context.Context, item *types.OrderItem, configured []types.ConfiguredTask, baseCtx map[string]any) []types.FulfillmentTask {
	var created []types.FulfillmentTask
	for _, ct := range configured {
		if !isKnownTaskType(ct.Type) {
			logger.Warn("skipping unknown task type", zap.String("task_type", string(ct.Type)))
			continue
		}

		scheduledAt, err := resolveScheduledAt(ct)
		if err != nil {
			logger.Warn("skipping task with invalid schedule", zap.String("task_type", string(ct.Type)), zap.Error(err))
			continue
		}

		title := ct.Title
		if title == "" {
			title = defaultTitleForType(ct.Type)
		}
		var description *string
		if ct.Description != "" {
			description = &ct.Description
		}

		maxRetries := types.DefaultMaxRetries
		if ct.MaxRetries != nil {
			maxRetries = *ct.MaxRetries
		}

		task, err := s.queries.CreateTask(ctx, db.CreateTaskParams{
			OrderItemID: item.ID,
			TaskType:    ct.Type,
			Title:       title,
			Description: description,
			Payload: &types.TaskPayload{
				Execution: ct.Execution,
				Context:   baseCtx,
				Extra:     ct.Payload,
			},
			MaxRetries:  maxRetries,
			ScheduledAt: &scheduledAt,
		})
		if err != nil {
			logger.Error("task creation failed", zap.String("task_type", string(ct.Type)), zap.Error(err))
			continue
		}
		created = append(created, *task)
	}
	return created
}

// categoryDefaultTasks returns the built-in task graph for a product
// category, per §4.5.2: "instagram" gets a four-task graph at fixed
// relative offsets, anything else gets a single generic task 24h out.
func categoryDefaultTasks(category string) []types.ConfiguredTask {
	h := func(hours int64) *int64 { return &hours }

	if category == "instagram" {
		return []types.ConfiguredTask{
			{Type: types.TaskTypeInstagramSetup, Title: "Instagram account setup", ScheduleOffsetHours: h(1)},
			{Type: types.TaskTypeAnalyticsCollection, Title: "Baseline analytics collection", ScheduleOffsetHours: h(2)},
			{Type: types.TaskTypeFollowerGrowth, Title: "Follower growth", ScheduleOffsetHours: h(24)},
			{Type: types.TaskTypeEngagementBoost, Title: "Engagement boost", ScheduleOffsetHours: h(48)},
		}
	}
	return []types.ConfiguredTask{
		{Type: types.TaskTypeContentPromotion, Title: "Content promotion", ScheduleOffsetHours: h(24)},
	}
}

func isKnownTaskType(t types.TaskType) bool {
	switch t {
	case types.TaskTypeInstagramSetup, types.TaskTypeAnalyticsCollection, types.TaskTypeFollowerGrowth,
		types.TaskTypeEngagementBoost, types.TaskTypeContentPromotion, types.TaskTypeCampaignOptimization:
		return true
	default:
		return false
	}
}

func defaultTitleForType(t types.TaskType) string {
	switch t {
	case types.TaskTypeInstagramSetup:
		return "Instagram account setup"
	case types.TaskTypeAnalyticsCollection:
		return "Analytics collection"
	case types.TaskTypeFollowerGrowth:
		return "Follower growth"
	case types.TaskTypeEngagementBoost:
		return "Engagement boost"
	case types.TaskTypeContentPromotion:
		return "Content promotion"
	case types.TaskTypeCampaignOptimization:
		return "Campaign optimization"
	default:
		return string(t)
	}
}

// resolveScheduledAt honors an explicit ISO-8601 scheduledAt over the
// relative offset fields, per §4.5.3.
func resolveScheduledAt(ct types.ConfiguredTask) (time.Time, error) {
	if ct.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *ct.ScheduledAt)
		if err != nil {
			return time.Time{}, dberrors.Validationf("scheduled_at", "invalid ISO-8601 timestamp: %v", err)
		}
		return t, nil
	}

	var offsetSeconds int64
	if ct.ScheduleOffsetSeconds != nil {
		offsetSeconds += *ct.ScheduleOffsetSeconds
	}
	if ct.ScheduleOffsetMinutes != nil {
		offsetSeconds += *ct.ScheduleOffsetMinutes * 60
	}
	if ct.ScheduleOffsetHours != nil {
		offsetSeconds += *ct.ScheduleOffsetHours * 3600
	}
	return time.Now().Add(time.Duration(offsetSeconds) * time.Second), nil
}

// buildTaskContext is the context snapshot frozen at task creation:
// order and item fields only. Task identity, the product, and the
// environment are added by the processor at execution time (§4.6.2),
// never baked in here, since the task row doesn't exist yet, the
// product can be re-categorized or renamed between materialization
// and execution, and env values should reflect what's current when
// the task actually runs.
func buildTaskContext(order *types.Order, item *types.OrderItem) map[string]any {
	return map[string]any{
		"order": map[string]any{
			"id":           order.ID.String(),
			"order_number": order.OrderNumber,
			"status":       string(order.Status),
			"currency":     order.Currency,
			"total":        order.Total.Float64(),
		},
		"item": map[string]any{
			"id":            item.ID.String(),
			"product_title": item.ProductTitle,
			"quantity":      item.Quantity,
			"unit_price":    item.UnitPrice.Float64(),
		},
	}
}
