package types

import "github.com/google/uuid"

// Endpoint is one entry of FulfillmentProvider.Automation.Endpoints, keyed
// by "order", "refill", "balance", "cancel".
type Endpoint struct {
	Method           string         `json:"method"`
	URL              string         `json:"url"`
	Headers          map[string]any `json:"headers,omitempty"`
	Payload          any            `json:"payload,omitempty"`
	Response         map[string]any `json:"response,omitempty"` // e.g. {"provider_order_id_path": "data.order_id"}
	TimeoutSeconds   *int           `json:"timeout_seconds,omitempty"`
	SuccessStatuses  []int          `json:"success_statuses,omitempty"`
}

// ProviderOrderIDPath returns the dotted path used to extract the
// provider-assigned order id from a create-order response, if configured.
func (e Endpoint) ProviderOrderIDPath() string {
	if e.Response == nil {
		return ""
	}
	if v, ok := e.Response["provider_order_id_path"].(string); ok {
		return v
	}
	return ""
}

type AutomationEndpoints struct {
	Order   *Endpoint `json:"order,omitempty"`
	Refill  *Endpoint `json:"refill,omitempty"`
	Balance *Endpoint `json:"balance,omitempty"`
	Cancel  *Endpoint `json:"cancel,omitempty"`
}

type ProviderMetadata struct {
	Automation struct {
		Endpoints AutomationEndpoints `json:"endpoints"`
	} `json:"automation"`
}

// FulfillmentProvider is a registered connector to an external fulfillment
// API.
type FulfillmentProvider struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	MetadataJSON ProviderMetadata `json:"metadata_json"`
}

// Guardrails is a service's margin policy; see §4.3.6.
type Guardrails struct {
	MinimumMarginPercent   float64 `json:"minimumMarginPercent"`
	WarningMarginPercent   float64 `json:"warningMarginPercent"`
	MinimumMarginAbsolute  float64 `json:"minimumMarginAbsolute"`
}

type CostModel struct {
	BaseCost    Money   `json:"baseCost"`
	MarginTarget *float64 `json:"marginTarget,omitempty"`
}

type PayloadTemplate struct {
	ID   string `json:"id"`
	Body any    `json:"body"`
}

// ServiceMetadata is a FulfillmentService's structured metadata.
type ServiceMetadata struct {
	CostModel        CostModel         `json:"costModel"`
	Guardrails       Guardrails        `json:"guardrails"`
	PayloadTemplates []PayloadTemplate `json:"payloadTemplates,omitempty"`
}

type FulfillmentService struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Metadata ServiceMetadata `json:"metadata"`
}

// OverrideExtraction is the normalized add-on override computed by
// §4.3.1.
type OverrideExtraction struct {
	ServiceID          uuid.UUID  `json:"serviceId"`
	ProviderID          uuid.UUID  `json:"providerId"`
	PricingAmount       Money      `json:"pricingAmount"`
	Currency            string     `json:"currency"`
	ProviderCostAmount  *Money     `json:"providerCostAmount,omitempty"`
	MarginTarget        *float64   `json:"marginTarget,omitempty"`
	FulfillmentMode     string     `json:"fulfillmentMode"`
	PayloadTemplate     any        `json:"payloadTemplate,omitempty"`
	PreviewQuantity     *int       `json:"previewQuantity,omitempty"`
	ServiceRules        []ServiceRule `json:"serviceRules,omitempty"`
}
