package automation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

// CreateProviderOrder resolves ext's service rules against buildCtx,
// invokes the provider's "order" endpoint, and persists the result, per
// §4.3.3.
func (s *Service) CreateProviderOrder(ctx context.Context, orderID, orderItemID uuid.UUID, ext types.OverrideExtraction, buildCtx map[string]any) (*types.FulfillmentProviderOrder, error) {
	if _, err := s.queries.GetService(ctx, ext.ServiceID); err != nil {
		return nil, err
	}

	overrides, ruleSnapshot := resolveRules(ext.ServiceRules, buildCtx)
	providerID := resolveProvider(ext, overrides)

	provider, err := s.queries.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	endpoint := provider.MetadataJSON.Automation.Endpoints.Order
	if endpoint == nil {
		return nil, dberrors.Validation("providerId", "provider has no order endpoint configured")
	}

	renderCtx := map[string]any{
		"providerMetadata": provider.MetadataJSON,
		"orderId":          orderID.String(),
		"orderItemId":      orderItemID.String(),
		"serviceId":        ext.ServiceID.String(),
		"serviceAction":    "create",
		"requestedAmount":  ext.PricingAmount.Float64(),
		"currency":         ext.Currency,
	}
	for k, v := range buildCtx {
		renderCtx[k] = v
	}

	result, invokeErr := s.invoker.Invoke(ctx, *endpoint, renderCtx, "order")
	if invokeErr != nil {
		logger.Error("provider order creation failed",
			zap.String("service_id", ext.ServiceID.String()), zap.Error(invokeErr))
		return nil, invokeErr
	}

	payload := types.ProviderOrderPayload{
		ProviderOrderID:  result.ProviderOrderID,
		ProviderResponse: result.JSON,
		ServiceRules:     ruleSnapshot,
	}

	return s.queries.CreateProviderOrder(ctx, db.CreateProviderOrderParams{
		ProviderID:    providerID,
		ServiceID:     ext.ServiceID,
		ServiceAction: "create",
		OrderID:       orderID,
		OrderItemID:   orderItemID,
		Amount:        ext.PricingAmount,
		Currency:      ext.Currency,
		Payload:       payload,
	})
}

// Refill invokes the provider's "refill" endpoint for an existing
// provider-order and appends the resulting entry, per §4.3.4.
func (s *Service) Refill(ctx context.Context, providerOrderID uuid.UUID, amount types.Money, currency string) (*types.FulfillmentProviderOrder, error) {
	po, err := s.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if po.Payload.ProviderOrderID == "" {
		return nil, dberrors.Validation("providerOrderId", "provider-order has no provider-assigned id yet")
	}

	provider, err := s.queries.GetProvider(ctx, po.ProviderID)
	if err != nil {
		return nil, err
	}
	endpoint := provider.MetadataJSON.Automation.Endpoints.Refill
	if endpoint == nil {
		return nil, dberrors.Validation("providerId", "provider has no refill endpoint configured")
	}

	renderCtx := map[string]any{
		"providerOrderId": po.Payload.ProviderOrderID,
		"amount":          amount.Float64(),
		"currency":        currency,
	}
	result, invokeErr := s.invoker.Invoke(ctx, *endpoint, renderCtx, "refill")
	if invokeErr != nil {
		logErr("refill invocation failed", providerOrderID, invokeErr)
		return nil, invokeErr
	}

	po.Payload.Refills = append(po.Payload.Refills, types.RefillEntry{
		ID:          uuid.New(),
		Amount:      amount,
		Currency:    currency,
		PerformedAt: time.Now(),
		Response:    result.JSON,
	})

	if err := s.queries.UpdateProviderOrderPayload(ctx, po.ID, po.Payload); err != nil {
		return nil, err
	}
	return po, nil
}

// Replay re-invokes the provider's "order" endpoint with the stored
// context and appends an executed/failed entry to payload.replays, per
// the immediate branch of §4.3.5. ruleIDs/ruleSnapshot are carried along
// for the appended entry's audit metadata; callers resolving rules fresh
// should pass the result of resolveRules, otherwise the provider-order's
// already-stored snapshot.
func (s *Service) Replay(ctx context.Context, providerOrderID uuid.UUID, requestedAmount types.Money, currency string, renderCtx map[string]any, ruleIDs []string, ruleSnapshot []types.RuleMetadata) (*types.FulfillmentProviderOrder, error) {
	po, err := s.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}

	provider, err := s.queries.GetProvider(ctx, po.ProviderID)
	if err != nil {
		return nil, err
	}
	endpoint := provider.MetadataJSON.Automation.Endpoints.Order
	if endpoint == nil {
		return nil, dberrors.Validation("providerId", "provider has no order endpoint configured")
	}

	result, invokeErr := s.invoker.Invoke(ctx, *endpoint, renderCtx, "order")

	entry := types.ReplayEntry{
		ID:              uuid.New(),
		RequestedAmount: requestedAmount,
		Currency:        currency,
		PerformedAt:     time.Now(),
		RuleIDs:         ruleIDs,
		RuleMetadata:    ruleSnapshot,
	}
	if invokeErr != nil {
		entry.Status = types.ReplayStatusFailed
		entry.ErrorPreview = invokeErr.Error()
	} else {
		entry.Status = types.ReplayStatusExecuted
		entry.Response = result.JSON
		po.Payload.ProviderResponse = result.JSON
	}
	po.Payload.Replays = append(po.Payload.Replays, entry)

	if updateErr := s.queries.UpdateProviderOrderPayload(ctx, po.ID, po.Payload); updateErr != nil {
		return nil, updateErr
	}
	return po, invokeErr
}

// ScheduleReplay appends a "scheduled" entry for a future replay, per
// the scheduled branch of §4.3.5. Drained later by C7.
func (s *Service) ScheduleReplay(ctx context.Context, providerOrderID uuid.UUID, requestedAmount types.Money, currency string, runAt time.Time, ruleIDs []string, ruleSnapshot []types.RuleMetadata) (*types.FulfillmentProviderOrder, error) {
	po, err := s.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}

	po.Payload.ScheduledReplays = append(po.Payload.ScheduledReplays, types.ScheduledReplayEntry{
		ID:              uuid.New(),
		RequestedAmount: requestedAmount,
		Currency:        currency,
		ScheduledFor:    runAt,
		Status:          types.ScheduledReplayScheduled,
		RuleIDs:         ruleIDs,
		RuleMetadata:    ruleSnapshot,
	})

	if err := s.queries.UpdateProviderOrderPayload(ctx, po.ID, po.Payload); err != nil {
		return nil, err
	}
	return po, nil
}

// ExecuteScheduledReplay drains one due scheduled entry: invokes the
// order endpoint and writes the entry's terminal status exactly once.
// That write is the fence preventing a crash-and-retry from
// double-executing the replay (§4.4).
func (s *Service) ExecuteScheduledReplay(ctx context.Context, providerOrderID, entryID uuid.UUID, renderCtx map[string]any) (*types.FulfillmentProviderOrder, error) {
	po, err := s.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, entry := range po.Payload.ScheduledReplays {
		if entry.ID == entryID && entry.Status == types.ScheduledReplayScheduled {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, dberrors.NotFound("scheduled replay", entryID.String())
	}

	provider, err := s.queries.GetProvider(ctx, po.ProviderID)
	if err != nil {
		return nil, err
	}
	endpoint := provider.MetadataJSON.Automation.Endpoints.Order
	if endpoint == nil {
		return nil, dberrors.Validation("providerId", "provider has no order endpoint configured")
	}

	result, invokeErr := s.invoker.Invoke(ctx, *endpoint, renderCtx, "order")
	now := time.Now()

	entry := &po.Payload.ScheduledReplays[idx]
	entry.ExecutedAt = &now

	replayEntry := types.ReplayEntry{
		ID:              uuid.New(),
		RequestedAmount: entry.RequestedAmount,
		Currency:        entry.Currency,
		PerformedAt:     now,
		RuleIDs:         entry.RuleIDs,
		RuleMetadata:    entry.RuleMetadata,
	}

	if invokeErr != nil {
		entry.Status = types.ScheduledReplayFailed
		entry.ErrorPreview = invokeErr.Error()
		logErr("scheduled replay failed", providerOrderID, invokeErr)

		replayEntry.Status = types.ReplayStatusFailed
		replayEntry.ErrorPreview = invokeErr.Error()
	} else {
		entry.Status = types.ScheduledReplayExecuted
		entry.Response = result.JSON
		po.Payload.ProviderResponse = result.JSON

		replayEntry.Status = types.ReplayStatusExecuted
		replayEntry.Response = result.JSON
	}
	// Mirrors Replay()'s own append so a drained scheduled replay counts
	// the same way an immediate one does (§4.4, §4.3.5).
	po.Payload.Replays = append(po.Payload.Replays, replayEntry)

	if updateErr := s.queries.UpdateProviderOrderPayload(ctx, po.ID, po.Payload); updateErr != nil {
		return nil, updateErr
	}
	return po, invokeErr
}
