// Package automation implements the Provider Automation Service (C4):
// reconcile catalog service-override rules with order metadata into
// provider-order records, and expose refill/replay/guardrail/snapshot
// operations on them. Structure (a Service holding its db.Querier and
// collaborators, constructed with NewService, methods that log and
// continue past per-item failures) mirrors
// libs/go/services/dunning_retry_engine.go's DunningRetryEngine.
package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/types"
)

// Service reconciles the catalog (providers, services, rules) with order
// metadata and drives every provider-order lifecycle operation.
type Service struct {
	queries db.Querier
	invoker *providerhttp.Invoker
}

func NewService(queries db.Querier, invoker *providerhttp.Invoker) *Service {
	return &Service{queries: queries, invoker: invoker}
}

// ExtractOverrides computes the normalized override for every add-on on
// item whose pricingMode is "serviceOverride" and that names a service,
// per §4.3.1. currency is the order's currency, carried down since
// OrderItem itself has none.
func (s *Service) ExtractOverrides(item types.OrderItem, currency string) []types.OverrideExtraction {
	if item.SelectedOptions == nil {
		return nil
	}

	var out []types.OverrideExtraction
	for _, addOn := range item.SelectedOptions.AddOns {
		if addOn.PricingMode != "serviceOverride" || addOn.ServiceID == nil {
			continue
		}

		ext := types.OverrideExtraction{
			ServiceID:          *addOn.ServiceID,
			PricingAmount:      addOn.PriceDelta,
			Currency:           currency,
			ProviderCostAmount: addOn.ProviderCostAmount,
			FulfillmentMode:    "provider_order",
			PayloadTemplate:    addOn.PayloadTemplate,
			PreviewQuantity:    addOn.PreviewQuantity,
			ServiceRules:       addOn.ServiceRules,
		}
		if addOn.ServiceProviderID != nil {
			ext.ProviderID = *addOn.ServiceProviderID
		}
		out = append(out, ext)
	}
	return out
}

// resolveRules walks rules in priority order and accumulates the
// overrides of every rule whose conditions all hold, per §4.3.2. A key
// already set by an earlier (lower-priority-number) matching rule is
// never clobbered by a later one. Returns the merged overrides plus the
// ordered metadata snapshot of every rule that matched, for audit.
func resolveRules(rules []types.ServiceRule, ctx map[string]any) (map[string]any, []types.RuleMetadata) {
	ordered := make([]types.ServiceRule, len(rules))
	copy(ordered, rules)
	sortRulesByPriority(ordered)

	overrides := map[string]any{}
	var snapshot []types.RuleMetadata

	for _, rule := range ordered {
		if !allConditionsHold(rule.Conditions, ctx) {
			continue
		}
		for k, v := range rule.Overrides {
			if _, exists := overrides[k]; !exists {
				overrides[k] = v
			}
		}
		snapshot = append(snapshot, types.RuleMetadata{
			ID:          rule.ID,
			Label:       rule.Label,
			Description: rule.Description,
			Priority:    rule.Priority,
			Conditions:  rule.Conditions,
			Overrides:   rule.Overrides,
		})
	}
	return overrides, snapshot
}

func sortRulesByPriority(rules []types.ServiceRule) {
	for i := 1; i < len(rules); i++ {
		j := i
		for j > 0 && rules[j-1].Priority > rules[j].Priority {
			rules[j-1], rules[j] = rules[j], rules[j-1]
			j--
		}
	}
}

func allConditionsHold(conditions []types.ServiceRuleCondition, ctx map[string]any) bool {
	for _, cond := range conditions {
		if !conditionHolds(cond, ctx) {
			return false
		}
	}
	return true
}

// conditionHolds resolves cond.Kind as a dotted path into ctx and
// compares it against cond.Constraint: list constraints are membership
// checks ("channel in {storefront}"), anything else is equality.
func conditionHolds(cond types.ServiceRuleCondition, ctx map[string]any) bool {
	value, ok := resolveDotted(ctx, cond.Kind)
	if !ok {
		return false
	}
	switch constraint := cond.Constraint.(type) {
	case []any:
		for _, candidate := range constraint {
			if equalLoose(value, candidate) {
				return true
			}
		}
		return false
	default:
		return equalLoose(value, constraint)
	}
}

func resolveDotted(ctx map[string]any, path string) (any, bool) {
	var current any = ctx
	for _, seg := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func equalLoose(a, b any) bool {
	if a == b {
		return true
	}
	return toComparable(a) == toComparable(b)
}

func toComparable(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// resolveProvider returns ext.ProviderID unless the resolved rule
// overrides contribute a "providerId" key, in which case that override
// wins (it was contributed by a rule matched against the build context).
func resolveProvider(ext types.OverrideExtraction, overrides map[string]any) uuid.UUID {
	if raw, ok := overrides["providerId"]; ok {
		if s, ok := raw.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				return id
			}
		}
	}
	return ext.ProviderID
}

func logErr(msg string, id uuid.UUID, err error) {
	logger.Error(msg, zap.String("provider_order_id", id.String()), zap.Error(err))
}
