// Package orderstate implements the Order State Machine (C8): the
// allowed-transition DAG and the append-only audit log every transition
// writes, per spec.md §4.7.
package orderstate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

// allowed is the transition DAG. canceled has no outgoing edges (terminal);
// completed is reachable only from active, processing, or on_hold, per
// §4.7's invariant — the one place the ASCII diagram itself is
// ambiguous about whether processing can reach completed directly, so
// this resolves that open question in the invariant's favor (see
// DESIGN.md).
var allowed = map[types.OrderStatus]map[types.OrderStatus]bool{
	types.OrderStatusPending: {
		types.OrderStatusProcessing: true,
	},
	types.OrderStatusProcessing: {
		types.OrderStatusActive:    true,
		types.OrderStatusOnHold:    true,
		types.OrderStatusCompleted: true,
		types.OrderStatusCanceled:  true,
	},
	types.OrderStatusActive: {
		types.OrderStatusCompleted: true,
		types.OrderStatusOnHold:    true,
		types.OrderStatusCanceled:  true,
	},
	types.OrderStatusOnHold: {
		types.OrderStatusProcessing: true,
		types.OrderStatusActive:     true,
		types.OrderStatusCompleted:  true,
		types.OrderStatusCanceled:   true,
	},
}

// Machine enforces the transition DAG and writes the audit trail.
type Machine struct {
	queries db.Querier
}

func NewMachine(queries db.Querier) *Machine {
	return &Machine{queries: queries}
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to types.OrderStatus) bool {
	if from == to {
		return false
	}
	return allowed[from][to]
}

// Transition validates from -> to, updates the order row, and records
// the event. A rejected transition never reaches the database.
func (m *Machine) Transition(ctx context.Context, orderID uuid.UUID, from, to types.OrderStatus, actor types.ActorType, actorID *uuid.UUID, actorLabel, notes *string, metadata map[string]any) error {
	if from == types.OrderStatusCanceled {
		return dberrors.Conflict("canceled orders are terminal and cannot transition")
	}
	if !CanTransition(from, to) {
		return dberrors.Validationf("status", "illegal transition %s -> %s", from, to)
	}

	if err := m.queries.UpdateOrderStatus(ctx, orderID, to); err != nil {
		return err
	}

	fromCopy, toCopy := from, to
	m.RecordEvent(ctx, db.InsertOrderStateEventParams{
		OrderID:    orderID,
		EventType:  types.EventTypeStateChange,
		ActorType:  actor,
		ActorID:    actorID,
		ActorLabel: actorLabel,
		FromStatus: &fromCopy,
		ToStatus:   &toCopy,
		Notes:      notes,
		Metadata:   metadata,
	})
	return nil
}

// RecordEvent appends an audit row. Per §4.7, audit failure logs but
// never aborts the caller — every call site treats this as fire-and-forget.
func (m *Machine) RecordEvent(ctx context.Context, arg db.InsertOrderStateEventParams) {
	if err := m.queries.InsertOrderStateEvent(ctx, arg); err != nil {
		logger.Error("order state event insert failed",
			zap.String("order_id", arg.OrderID.String()),
			zap.String("event_type", string(arg.EventType)),
			zap.Error(err))
	}
}
