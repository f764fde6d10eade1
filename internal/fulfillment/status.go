package fulfillment

import (
	"context"

	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/types"
)

// RecomputeOrderStatus implements §4.5.4: any failed task puts the order
// on hold; all tasks completed finishes it; any task in progress or
// completed (but not all) marks it active; otherwise it stays processing.
// Canceled orders are left alone.
func (s *Service) RecomputeOrderStatus(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == types.OrderStatusCanceled {
		return nil
	}

	tasks, err := s.queries.ListTasksByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	next := computeStatus(tasks, order.Status)
	if next == order.Status {
		return nil
	}
	if !orderstate.CanTransition(order.Status, next) {
		return nil
	}

	if err := s.state.Transition(ctx, orderID, order.Status, next, types.ActorSystem, nil, nil, nil, nil); err != nil {
		return err
	}
	order.Status = next

	if s.notifier == nil {
		return nil
	}
	if next == types.OrderStatusCompleted {
		return s.notifier.NotifyFulfillmentCompletion(ctx, order)
	}
	return s.notifier.NotifyOrderStatusUpdate(ctx, order)
}

func computeStatus(tasks []types.FulfillmentTask, current types.OrderStatus) types.OrderStatus {
	if len(tasks) == 0 {
		return current
	}

	var anyFailed, anyInProgressOrCompleted, allCompleted bool
	allCompleted = true
	for _, t := range tasks {
		switch t.Status {
		case types.TaskStatusFailed:
			anyFailed = true
			allCompleted = false
		case types.TaskStatusCompleted:
			anyInProgressOrCompleted = true
		case types.TaskStatusInProgress:
			anyInProgressOrCompleted = true
			allCompleted = false
		default:
			allCompleted = false
		}
	}

	switch {
	case anyFailed:
		return types.OrderStatusOnHold
	case allCompleted:
		return types.OrderStatusCompleted
	case anyInProgressOrCompleted:
		return types.OrderStatusActive
	default:
		return types.OrderStatusProcessing
	}
}
