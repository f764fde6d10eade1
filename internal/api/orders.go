package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/db"
	apierrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/types"
)

// OrderHandler serves the order CRUD and fulfillment-rollup routes,
// mirroring the teacher's NewAccountHandler(commonServices) construction.
type OrderHandler struct {
	queries     db.Querier
	fulfillment *fulfillment.Service
	state       *orderstate.Machine
}

func NewOrderHandler(queries db.Querier, fulfillmentSvc *fulfillment.Service, state *orderstate.Machine) *OrderHandler {
	return &OrderHandler{queries: queries, fulfillment: fulfillmentSvc, state: state}
}

// CreateOrderItemRequest is one line of a CreateOrderRequest.
type CreateOrderItemRequest struct {
	ProductID       *uuid.UUID             `json:"product_id"`
	Quantity        int                    `json:"quantity" binding:"required,min=1"`
	SelectedOptions *types.SelectedOptions `json:"selected_options,omitempty"`
	Attributes      map[string]any         `json:"attributes,omitempty"`
	PlatformContext map[string]any         `json:"platform_context,omitempty"`
}

type CreateOrderRequest struct {
	UserID   *uuid.UUID               `json:"user_id,omitempty"`
	Source   types.OrderSource        `json:"source" binding:"required"`
	Currency string                   `json:"currency" binding:"required"`
	Notes    *string                  `json:"notes,omitempty"`
	Items    []CreateOrderItemRequest `json:"items" binding:"required,min=1"`
}

// CreateOrder implements POST /orders. Every item's product must exist;
// pricing is snapshotted from the catalog at creation time, never taken
// from the request body.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation("body", err.Error()))
		return
	}
	if !types.ValidCurrency(req.Currency) {
		respondError(c, apierrors.Validation("currency", "unknown currency: "+req.Currency))
		return
	}

	ctx := c.Request.Context()

	var subtotal types.Money
	resolved := make([]db.CreateOrderItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == nil {
			respondError(c, apierrors.Validation("items.product_id", "required"))
			return
		}
		product, err := h.queries.GetProduct(ctx, *item.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		if product == nil {
			respondError(c, apierrors.NotFound("product", item.ProductID.String()))
			return
		}
		unitPrice := product.BasePrice
		totalPrice := types.Money(int64(unitPrice) * int64(item.Quantity))
		subtotal += totalPrice
		resolved = append(resolved, db.CreateOrderItemParams{
			ProductID:       item.ProductID,
			ProductTitle:    product.Title,
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			TotalPrice:      totalPrice,
			SelectedOptions: item.SelectedOptions,
			Attributes:      item.Attributes,
			PlatformContext: item.PlatformContext,
		})
	}

	order, err := h.queries.CreateOrder(ctx, db.CreateOrderParams{
		UserID:   req.UserID,
		Source:   req.Source,
		Currency: req.Currency,
		Subtotal: subtotal,
		Tax:      0,
		Total:    subtotal,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	for i := range resolved {
		resolved[i].OrderID = order.ID
		item, err := h.queries.CreateOrderItem(ctx, resolved[i])
		if err != nil {
			respondError(c, err)
			return
		}
		order.Items = append(order.Items, *item)
	}

	sendSuccess(c, http.StatusCreated, order)
}

// GetOrder implements GET /orders/{id}.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.Validation("id", "not a valid order id"))
		return
	}
	order, err := h.queries.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, apierrors.NotFound("order", id.String()))
		return
	}
	sendSuccess(c, http.StatusOK, order)
}

// ListOrders implements GET /orders with skip/limit/status_filter.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var statusFilter *types.OrderStatus
	if raw := c.Query("status_filter"); raw != "" {
		s := types.OrderStatus(raw)
		if !s.Valid() {
			respondError(c, apierrors.Validation("status_filter", "unknown status: "+raw))
			return
		}
		statusFilter = &s
	}

	orders, err := h.queries.ListOrders(c.Request.Context(), db.ListOrdersParams{
		Skip: skip, Limit: limit, StatusFilter: statusFilter,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": orders})
}

// ListOrdersByUser implements GET /orders/user/{userId}.
func (h *OrderHandler) ListOrdersByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondError(c, apierrors.Validation("userId", "not a valid user id"))
		return
	}
	orders, err := h.queries.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": orders})
}

type UpdateOrderStatusRequest struct {
	Status     types.OrderStatus `json:"status" binding:"required"`
	ActorLabel *string           `json:"actor_label,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

// UpdateOrderStatus implements PATCH /orders/{id}/status, the admin
// transition route. Every transition records an order-state event.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.Validation("id", "not a valid order id"))
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation("body", err.Error()))
		return
	}
	if !req.Status.Valid() {
		respondError(c, apierrors.Validation("status", "unknown status: "+string(req.Status)))
		return
	}

	ctx := c.Request.Context()
	order, err := h.queries.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, apierrors.NotFound("order", id.String()))
		return
	}
	if !orderstate.CanTransition(order.Status, req.Status) {
		respondError(c, apierrors.Validationf("status", "cannot transition from %s to %s", order.Status, req.Status))
		return
	}

	if err := h.state.Transition(ctx, id, order.Status, req.Status, types.ActorAdmin, nil, req.ActorLabel, req.Notes, nil); err != nil {
		respondError(c, err)
		return
	}
	order.Status = req.Status
	sendSuccess(c, http.StatusOK, order)
}

// OrderProgress is the fulfillment rollup GET /orders/{id}/progress returns.
type OrderProgress struct {
	TotalTasks          int     `json:"total_tasks"`
	CompletedTasks      int     `json:"completed_tasks"`
	FailedTasks         int     `json:"failed_tasks"`
	InProgressTasks     int     `json:"in_progress_tasks"`
	ProgressPercentage  float64 `json:"progress_percentage"`
	ItemsCount          int     `json:"items_count"`
	OrderStatus         types.OrderStatus `json:"order_status"`
}

// GetOrderProgress implements GET /orders/{id}/progress.
func (h *OrderHandler) GetOrderProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.Validation("id", "not a valid order id"))
		return
	}

	ctx := c.Request.Context()
	order, err := h.queries.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, apierrors.NotFound("order", id.String()))
		return
	}

	items, err := h.queries.ListOrderItemsByOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	tasks, err := h.queries.ListTasksByOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	progress := OrderProgress{ItemsCount: len(items), OrderStatus: order.Status, TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case types.TaskStatusCompleted:
			progress.CompletedTasks++
		case types.TaskStatusFailed:
			progress.FailedTasks++
		case types.TaskStatusInProgress:
			progress.InProgressTasks++
		}
	}
	if progress.TotalTasks > 0 {
		progress.ProgressPercentage = float64(progress.CompletedTasks) / float64(progress.TotalTasks) * 100
	}

	sendSuccess(c, http.StatusOK, progress)
}

// ListOrderStateEvents implements GET /orders/{id}/state-events.
func (h *OrderHandler) ListOrderStateEvents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apierrors.Validation("id", "not a valid order id"))
		return
	}
	events, err := h.queries.ListOrderStateEvents(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "list", "data": events})
}
