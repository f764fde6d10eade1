package automation

import (
	"context"
	"time"

	"github.com/smplat/fulfillment/internal/types"
)

// ReplayCounts aggregates replay activity across all provider-orders.
type ReplayCounts struct {
	Total     int `json:"total"`
	Executed  int `json:"executed"`
	Failed    int `json:"failed"`
	Scheduled int `json:"scheduled"`
}

// GuardrailCounts aggregates guardrail classifications across all
// provider-orders.
type GuardrailCounts struct {
	Evaluated int `json:"evaluated"`
	Pass      int `json:"pass"`
	Warn      int `json:"warn"`
	Fail      int `json:"fail"`
}

// RuleOverrideStats tallies how often a service's resolved rules fired.
type RuleOverrideStats struct {
	TotalOverrides int            `json:"totalOverrides"`
	RuleFrequency  map[string]int `json:"ruleFrequency"`
	RuleLabels     map[string]string `json:"ruleLabels"`
}

// Snapshot is the aggregate automation health view, per §4.3.7. Always
// recomputed from the persisted provider-order rows, never cached
// process-local state (§9's resolved open question).
type Snapshot struct {
	TotalOrders            int                          `json:"totalOrders"`
	Replays                ReplayCounts                 `json:"replays"`
	Guardrails             GuardrailCounts               `json:"guardrails"`
	GuardrailHitsByService map[string]int                `json:"guardrailHitsByService"`
	RuleOverridesByService map[string]*RuleOverrideStats `json:"ruleOverridesByService"`
}

// BacklogMetrics is the due-scheduled-replay status summary, per §4.3.8.
type BacklogMetrics struct {
	ScheduledBacklog int        `json:"scheduledBacklog"`
	NextScheduledAt  *time.Time `json:"nextScheduledAt,omitempty"`
}

// Snapshot aggregates per-provider and global automation metrics by
// scanning every provider-order row.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	orders, err := s.queries.ListProviderOrders(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		GuardrailHitsByService: map[string]int{},
		RuleOverridesByService: map[string]*RuleOverrideStats{},
	}

	for _, po := range orders {
		snap.TotalOrders++
		serviceKey := po.ServiceID.String()

		for _, replay := range po.Payload.Replays {
			snap.Replays.Total++
			switch replay.Status {
			case types.ReplayStatusExecuted:
				snap.Replays.Executed++
			case types.ReplayStatusFailed:
				snap.Replays.Failed++
			}
		}
		for _, scheduled := range po.Payload.ScheduledReplays {
			if scheduled.Status == types.ScheduledReplayScheduled {
				snap.Replays.Scheduled++
			}
		}

		if po.Payload.Guardrails != nil {
			snap.Guardrails.Evaluated++
			switch po.Payload.Guardrails.Classification {
			case types.GuardrailPass:
				snap.Guardrails.Pass++
			case types.GuardrailWarn:
				snap.Guardrails.Warn++
				snap.GuardrailHitsByService[serviceKey]++
			case types.GuardrailFail:
				snap.Guardrails.Fail++
				snap.GuardrailHitsByService[serviceKey]++
			}
		}

		if len(po.Payload.ServiceRules) > 0 {
			stats, ok := snap.RuleOverridesByService[serviceKey]
			if !ok {
				stats = &RuleOverrideStats{RuleFrequency: map[string]int{}, RuleLabels: map[string]string{}}
				snap.RuleOverridesByService[serviceKey] = stats
			}
			for _, rule := range po.Payload.ServiceRules {
				stats.TotalOverrides++
				stats.RuleFrequency[rule.ID]++
				if rule.Label != "" {
					stats.RuleLabels[rule.ID] = rule.Label
				}
			}
		}
	}

	return snap, nil
}

// Backlog scans every provider-order's scheduled replays and reports how
// many remain in "scheduled" status and the earliest one due, per
// §4.3.8.
func (s *Service) Backlog(ctx context.Context) (*BacklogMetrics, error) {
	orders, err := s.queries.ListProviderOrders(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &BacklogMetrics{}
	for _, po := range orders {
		for _, scheduled := range po.Payload.ScheduledReplays {
			if scheduled.Status != types.ScheduledReplayScheduled {
				continue
			}
			metrics.ScheduledBacklog++
			if metrics.NextScheduledAt == nil || scheduled.ScheduledFor.Before(*metrics.NextScheduledAt) {
				t := scheduled.ScheduledFor
				metrics.NextScheduledAt = &t
			}
		}
	}
	return metrics, nil
}
