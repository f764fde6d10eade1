package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/types"
)

// Querier is the full persistence surface every service in this repo
// depends on, never the concrete *Queries — so service-layer tests mock
// it the way the teacher's *_service_test.go files mock db.Querier.
type Querier interface {
	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (*types.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*types.Order, error)
	ListOrders(ctx context.Context, arg ListOrdersParams) ([]types.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]types.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status types.OrderStatus) error
	NextOrderNumber(ctx context.Context) (string, error)

	// Order items
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (*types.OrderItem, error)
	GetOrderItem(ctx context.Context, id uuid.UUID) (*types.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]types.OrderItem, error)

	// Products
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*types.Product, error)

	// Tasks
	CreateTask(ctx context.Context, arg CreateTaskParams) (*types.FulfillmentTask, error)
	GetTask(ctx context.Context, id uuid.UUID) (*types.FulfillmentTask, error)
	ListDueTasks(ctx context.Context, limit int) ([]types.FulfillmentTask, error)
	ListTasksByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]types.FulfillmentTask, error)
	ListTasksByOrder(ctx context.Context, orderID uuid.UUID) ([]types.FulfillmentTask, error)
	UpdateTask(ctx context.Context, arg UpdateTaskParams) error

	// Provider / service catalog
	GetProvider(ctx context.Context, id uuid.UUID) (*types.FulfillmentProvider, error)
	GetService(ctx context.Context, id uuid.UUID) (*types.FulfillmentService, error)

	// Provider orders
	CreateProviderOrder(ctx context.Context, arg CreateProviderOrderParams) (*types.FulfillmentProviderOrder, error)
	GetProviderOrderForUpdate(ctx context.Context, id uuid.UUID) (*types.FulfillmentProviderOrder, error)
	UpdateProviderOrderPayload(ctx context.Context, id uuid.UUID, payload types.ProviderOrderPayload) error
	ListProviderOrders(ctx context.Context) ([]types.FulfillmentProviderOrder, error)
	ListProviderOrdersWithDueScheduledReplays(ctx context.Context, now time.Time) ([]types.FulfillmentProviderOrder, error)

	// Order state events
	InsertOrderStateEvent(ctx context.Context, arg InsertOrderStateEventParams) error
	ListOrderStateEvents(ctx context.Context, orderID uuid.UUID) ([]types.OrderStateEvent, error)

	// Webhook dedup ledger
	GetWebhookEventByProviderEventID(ctx context.Context, provider, externalID string) (*types.WebhookEvent, error)
	CreateWebhookEvent(ctx context.Context, arg CreateWebhookEventParams) (*types.WebhookEvent, error)

	// Payments
	GetPaymentByProviderReference(ctx context.Context, provider, reference string) (*types.Payment, error)
	CreatePayment(ctx context.Context, arg CreatePaymentParams) (*types.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status types.PaymentStatus, failureReason *string, capturedAt *time.Time) error

	// Notification preferences
	GetNotificationPreference(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error)

	// Worker run history
	CreateProviderAutomationRun(ctx context.Context, arg types.ProviderAutomationRun) error
	CreateCronJobRun(ctx context.Context, arg types.CronJobRun) error
	ListCronJobRuns(ctx context.Context, jobID string, limit int) ([]types.CronJobRun, error)
}

var _ Querier = (*Queries)(nil)
