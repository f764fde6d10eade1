package automation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/types"
)

// EvaluateGuardrail computes the margin classification for one
// provider-order, per §4.3.6.
func EvaluateGuardrail(customerPrice, providerCost types.Money, g types.Guardrails) types.GuardrailSnapshot {
	snapshot := types.GuardrailSnapshot{EvaluatedAt: time.Now()}

	if customerPrice <= 0 {
		snapshot.Classification = types.GuardrailIdle
		return snapshot
	}

	marginValue := customerPrice - providerCost
	marginPercent := marginValue.Float64() / customerPrice.Float64() * 100

	snapshot.MarginValue = marginValue
	snapshot.MarginPercent = marginPercent

	switch {
	case marginValue.Float64() < g.MinimumMarginAbsolute || marginPercent < g.MinimumMarginPercent:
		snapshot.Classification = types.GuardrailFail
	case marginPercent < g.WarningMarginPercent:
		snapshot.Classification = types.GuardrailWarn
	default:
		snapshot.Classification = types.GuardrailPass
	}
	return snapshot
}

// EvaluateAndStoreGuardrail evaluates and persists the snapshot onto the
// provider-order's payload.
func (s *Service) EvaluateAndStoreGuardrail(ctx context.Context, providerOrderID uuid.UUID, customerPrice, providerCost types.Money, guardrails types.Guardrails) (*types.GuardrailSnapshot, error) {
	po, err := s.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}

	snapshot := EvaluateGuardrail(customerPrice, providerCost, guardrails)
	po.Payload.Guardrails = &snapshot

	if err := s.queries.UpdateProviderOrderPayload(ctx, po.ID, po.Payload); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
