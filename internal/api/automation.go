package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/db"
	apierrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/types"
)

// AutomationHandler serves the provider automation telemetry and replay
// routes.
type AutomationHandler struct {
	queries    db.Querier
	automation *automation.Service
}

func NewAutomationHandler(queries db.Querier, automationSvc *automation.Service) *AutomationHandler {
	return &AutomationHandler{queries: queries, automation: automationSvc}
}

// GetSnapshot implements GET /fulfillment/providers/automation/snapshot.
func (h *AutomationHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.automation.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, snapshot)
}

// ReplayRequest is the body of POST
// /fulfillment/providers/{id}/orders/{providerOrderId}/replay. Amount
// defaults to the provider order's current amount when omitted by the
// caller. A RunAt in the future defers execution instead of replaying
// immediately; a RunAt at or before now replays immediately unless
// ScheduleOnly is set, in which case it is scheduled anyway.
type ReplayRequest struct {
	Amount       *types.Money `json:"amount,omitempty"`
	RunAt        *time.Time   `json:"runAt,omitempty"`
	ScheduleOnly bool         `json:"scheduleOnly,omitempty"`
}

// Replay implements POST
// /fulfillment/providers/{id}/orders/{providerOrderId}/replay. The {id}
// path segment (provider id) is accepted for route-surface parity with
// spec.md §6 but the provider order itself is looked up and acted on by
// {providerOrderId} alone, since a provider order belongs to exactly one
// provider. Dispatches to ScheduleReplay or Replay depending on which
// combination of RunAt/ScheduleOnly the caller sent; ScheduleOnly without
// a RunAt is rejected.
func (h *AutomationHandler) Replay(c *gin.Context) {
	providerOrderID, err := uuid.Parse(c.Param("providerOrderId"))
	if err != nil {
		respondError(c, apierrors.Validation("providerOrderId", "not a valid id"))
		return
	}

	var req ReplayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apierrors.Validation("body", err.Error()))
			return
		}
	}

	ctx := c.Request.Context()
	current, err := h.queries.GetProviderOrderForUpdate(ctx, providerOrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		respondError(c, apierrors.NotFound("provider order", providerOrderID.String()))
		return
	}

	amount := current.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}

	scheduled := req.RunAt != nil && (req.ScheduleOnly || req.RunAt.After(time.Now()))

	var updated *types.FulfillmentProviderOrder
	switch {
	case scheduled:
		updated, err = h.automation.ScheduleReplay(ctx, providerOrderID, amount, current.Currency, *req.RunAt, nil, nil)
	case req.ScheduleOnly && req.RunAt == nil:
		respondError(c, apierrors.Validation("runAt", "required when scheduleOnly is set"))
		return
	default:
		updated, err = h.automation.Replay(ctx, providerOrderID, amount, current.Currency, nil, nil, nil)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if scheduled {
		sendSuccess(c, http.StatusCreated, lastScheduledReplay(updated))
		return
	}
	sendSuccess(c, http.StatusCreated, lastReplay(updated))
}

func lastReplay(po *types.FulfillmentProviderOrder) *types.ReplayEntry {
	replays := po.Payload.Replays
	if len(replays) == 0 {
		return nil
	}
	return &replays[len(replays)-1]
}

func lastScheduledReplay(po *types.FulfillmentProviderOrder) *types.ScheduledReplayEntry {
	entries := po.Payload.ScheduledReplays
	if len(entries) == 0 {
		return nil
	}
	return &entries[len(entries)-1]
}
