package fulfillment

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

// ProcessOrderFulfillment is the C5 kickoff, per §4.5.1. Returns false
// (no-op) when the order isn't pending; returns true once the order has
// transitioned to processing and every item's tasks/provider-orders have
// been materialized.
func (s *Service) ProcessOrderFulfillment(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != types.OrderStatusPending {
		return false, nil
	}

	if err := s.state.Transition(ctx, orderID, order.Status, types.OrderStatusProcessing,
		types.ActorSystem, nil, nil, nil, nil); err != nil {
		return false, err
	}
	order.Status = types.OrderStatusProcessing

	if s.notifier != nil {
		if nerr := s.notifier.NotifyOrderStatusUpdate(ctx, order); nerr != nil {
			logger.Warn("order status notification failed", zap.String("order_id", orderID.String()), zap.Error(nerr))
		}
	}

	items, err := s.queries.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return false, err
	}

	for i := range items {
		item := items[i]

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			if _, err := s.MaterializeTasks(ctx, order, &item); err != nil {
				logger.Error("task materialization failed",
					zap.String("order_item_id", item.ID.String()), zap.Error(err))
			}
		}()

		go func() {
			defer wg.Done()
			s.createProviderOrdersForItem(ctx, order, item)
		}()

		wg.Wait()
	}

	return true, nil
}

func (s *Service) createProviderOrdersForItem(ctx context.Context, order *types.Order, item types.OrderItem) {
	overrides := s.automation.ExtractOverrides(item, order.Currency)
	for _, ext := range overrides {
		buildCtx := map[string]any{
			"order": map[string]any{
				"id":           order.ID.String(),
				"order_number": order.OrderNumber,
				"currency":     order.Currency,
			},
			"item": map[string]any{
				"id":            item.ID.String(),
				"product_title": item.ProductTitle,
				"quantity":      item.Quantity,
			},
		}
		if _, err := s.automation.CreateProviderOrder(ctx, order.ID, item.ID, ext, buildCtx); err != nil {
			logger.Error("provider order creation failed",
				zap.String("order_item_id", item.ID.String()),
				zap.String("service_id", ext.ServiceID.String()),
				zap.Error(err))
		}
	}
}
