// Package types holds the domain model shared across every component:
// orders and items, the catalog, fulfillment tasks, provider-order records
// and their typed payload, the order-state event log, webhook/processor
// ledger rows, payments, and notification preferences. These mirror
// spec.md §3 field-for-field; JSON tags use the snake_case the original
// API surface and dashboards already expect.
package types

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusActive     OrderStatus = "active"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusOnHold     OrderStatus = "on_hold"
	OrderStatusCanceled   OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusActive,
		OrderStatusCompleted, OrderStatusOnHold, OrderStatusCanceled:
		return true
	}
	return false
}

type OrderSource string

const (
	OrderSourceCheckout OrderSource = "checkout"
	OrderSourceManual   OrderSource = "manual"
)

func (s OrderSource) Valid() bool {
	return s == OrderSourceCheckout || s == OrderSourceManual
}

// Order is the top-level purchase record. OrderNumber is "SM" followed by a
// zero-padded 6-digit sequence, assigned at creation and never reused.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	OrderNumber string      `json:"order_number"`
	UserID      *uuid.UUID  `json:"user_id,omitempty"`
	Status      OrderStatus `json:"status"`
	Source      OrderSource `json:"source"`
	Currency    string      `json:"currency"`
	Subtotal    Money       `json:"subtotal"`
	Tax         Money       `json:"tax"`
	Total       Money       `json:"total"`
	Notes       *string     `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// AddOn is one entry of OrderItem.SelectedOptions.AddOns.
type AddOn struct {
	PricingMode        string           `json:"pricingMode"`
	ServiceID          *uuid.UUID       `json:"serviceId,omitempty"`
	PriceDelta         Money            `json:"priceDelta"`
	ServiceProviderID  *uuid.UUID       `json:"serviceProviderId,omitempty"`
	ProviderCostAmount *Money           `json:"providerCostAmount,omitempty"`
	ServiceRules       []ServiceRule    `json:"serviceRules,omitempty"`
	PayloadTemplate    any              `json:"payloadTemplate,omitempty"`
	PreviewQuantity    *int             `json:"previewQuantity,omitempty"`
}

// SelectedOptions is the arbitrary-JSON bag an OrderItem carries; AddOns is
// the only subset the fulfillment core interprets.
type SelectedOptions struct {
	AddOns []AddOn        `json:"addOns,omitempty"`
	Extra  map[string]any `json:"-"`
}

type OrderItem struct {
	ID               uuid.UUID        `json:"id"`
	OrderID          uuid.UUID        `json:"order_id"`
	ProductID        *uuid.UUID       `json:"product_id,omitempty"`
	ProductTitle     string           `json:"product_title"`
	Quantity         int              `json:"quantity"`
	UnitPrice        Money            `json:"unit_price"`
	TotalPrice       Money            `json:"total_price"`
	SelectedOptions  *SelectedOptions `json:"selected_options,omitempty"`
	Attributes       map[string]any   `json:"attributes,omitempty"`
	PlatformContext  map[string]any   `json:"platform_context,omitempty"`
}

// ServiceRule is a priority-ordered conditional override applied at
// provider-order creation time, per §4.3.2.
type ServiceRule struct {
	ID          string                 `json:"id"`
	Label       string                 `json:"label,omitempty"`
	Description string                 `json:"description,omitempty"`
	Priority    int                    `json:"priority"`
	Conditions  []ServiceRuleCondition `json:"conditions"`
	Overrides   map[string]any         `json:"overrides"`
}

type ServiceRuleCondition struct {
	Kind       string `json:"kind"`
	Constraint any    `json:"constraint"`
}
