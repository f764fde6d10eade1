package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/smplat/fulfillment/internal/types"
)

type CreateOrderParams struct {
	UserID   *uuid.UUID
	Source   types.OrderSource
	Currency string
	Subtotal types.Money
	Tax      types.Money
	Total    types.Money
	Notes    *string
}

type ListOrdersParams struct {
	Skip         int
	Limit        int
	StatusFilter *types.OrderStatus
}

type CreateOrderItemParams struct {
	OrderID         uuid.UUID
	ProductID       *uuid.UUID
	ProductTitle    string
	Quantity        int
	UnitPrice       types.Money
	TotalPrice      types.Money
	SelectedOptions *types.SelectedOptions
	Attributes      map[string]any
	PlatformContext map[string]any
}

type CreateTaskParams struct {
	OrderItemID uuid.UUID
	TaskType    types.TaskType
	Title       string
	Description *string
	Payload     *types.TaskPayload
	MaxRetries  int
	ScheduledAt *time.Time
}

type UpdateTaskParams struct {
	ID           uuid.UUID
	Status       types.TaskStatus
	Result       map[string]any
	ErrorMessage *string
	RetryCount   int
	ScheduledAt  *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

type CreateProviderOrderParams struct {
	ProviderID    uuid.UUID
	ServiceID     uuid.UUID
	ServiceAction string
	OrderID       uuid.UUID
	OrderItemID   uuid.UUID
	Amount        types.Money
	Currency      string
	Payload       types.ProviderOrderPayload
}

type InsertOrderStateEventParams struct {
	OrderID    uuid.UUID
	EventType  types.OrderEventType
	ActorType  types.ActorType
	ActorID    *uuid.UUID
	ActorLabel *string
	FromStatus *types.OrderStatus
	ToStatus   *types.OrderStatus
	Notes      *string
	Metadata   map[string]any
}

type CreateWebhookEventParams struct {
	WorkspaceID *uuid.UUID
	Provider    string
	ExternalID  string
	EventType   string
	PayloadHash string
	Data        map[string]any
}

type CreatePaymentParams struct {
	OrderID           uuid.UUID
	Provider          string
	ProviderReference string
	Status            types.PaymentStatus
	Amount            types.Money
	Currency          string
}
