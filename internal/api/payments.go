package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/smplat/fulfillment/internal/db"
	apierrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/webhook"
)

// PaymentHandler serves the checkout and Stripe webhook routes.
type PaymentHandler struct {
	queries     db.Querier
	webhook     *webhook.Service
	stripe      *stripe.Client
	frontendURL string
}

func NewPaymentHandler(queries db.Querier, webhookSvc *webhook.Service, stripeClient *stripe.Client, frontendURL string) *PaymentHandler {
	return &PaymentHandler{queries: queries, webhook: webhookSvc, stripe: stripeClient, frontendURL: frontendURL}
}

type CheckoutRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// CreateCheckout implements POST /payments/checkout: builds a Stripe
// Checkout Session for the order's total, tagging order_id in metadata
// so the webhook handler can resolve it back (C9's orderIDFromMetadata).
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.Validation("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	order, err := h.queries.GetOrder(ctx, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		respondError(c, apierrors.NotFound("order", req.OrderID.String()))
		return
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(h.frontendURL + "/orders/" + order.ID.String() + "?checkout=success"),
		CancelURL:  stripe.String(h.frontendURL + "/orders/" + order.ID.String() + "?checkout=cancelled"),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(order.Currency),
					UnitAmount: stripe.Int64(int64(order.Total)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String("Order " + order.OrderNumber),
					},
				},
			},
		},
		Metadata: map[string]string{"order_id": order.ID.String()},
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: map[string]string{"order_id": order.ID.String()},
		},
	}

	session, err := h.stripe.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		respondError(c, apierrors.Wrap(err, "stripe checkout session creation failed"))
		return
	}

	sendSuccess(c, http.StatusCreated, CheckoutResponse{CheckoutURL: session.URL, SessionID: session.ID})
}

// HandleStripeWebhook implements POST /payments/webhooks/stripe: a
// missing or invalid signature answers 400, and any other error converts
// to 500 so Stripe retries, per §7's webhook disposition policy.
func (h *PaymentHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apierrors.Validation("body", "unreadable request body"))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		respondError(c, apierrors.Validation("stripe-signature", "missing stripe-signature header"))
		return
	}

	if err := h.webhook.HandleStripeWebhook(c.Request.Context(), body, sig); err != nil {
		if _, ok := apierrors.Cause(err).(*apierrors.AuthError); ok {
			c.JSON(http.StatusBadRequest, ErrorDetail{Detail: err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, gin.H{"received": true})
}
