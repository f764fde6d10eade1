// Package fulfillment implements the Fulfillment Service (C5): order
// kickoff, task-graph materialization, status recomputation, and retry
// scheduling. Structure mirrors internal/automation.Service — a small
// struct over db.Querier plus its peer services, grounded the same way
// on libs/go/services/subscription_management_service.go's
// struct-of-collaborators shape.
package fulfillment

import (
	"context"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/types"
)

// Notifier is the subset of the Notification Dispatcher (C11) the
// fulfillment service calls; defined here (consumer side) so this
// package never imports internal/notify, avoiding a cycle since notify
// has no reason to depend back on fulfillment.
type Notifier interface {
	NotifyOrderStatusUpdate(ctx context.Context, order *types.Order) error
	NotifyFulfillmentCompletion(ctx context.Context, order *types.Order) error
	NotifyFulfillmentRetry(ctx context.Context, task *types.FulfillmentTask, errorMessage string) error
}

type Service struct {
	queries    db.Querier
	automation *automation.Service
	state      *orderstate.Machine
	notifier   Notifier
}

func NewService(queries db.Querier, automationSvc *automation.Service, state *orderstate.Machine, notifier Notifier) *Service {
	return &Service{queries: queries, automation: automationSvc, state: state, notifier: notifier}
}
