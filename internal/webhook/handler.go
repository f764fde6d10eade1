// Package webhook implements Payment Ingestion (C9): signature
// verification, dedup-ledger-gated idempotent processing, and dispatch
// of the three payment event types §4.8 names, grounded on the
// teacher's stripe.StripeService.HandleWebhook (webhook.ConstructEvent
// + switch-on-event.Type) and its cmd/webhook-receiver/main.go
// entrypoint shape.
package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

const providerStripe = "stripe"

// FulfillmentInvoker is the subset of C5 this package calls on a
// successful payment.
type FulfillmentInvoker interface {
	ProcessOrderFulfillment(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// Notifier is the subset of the Notification Dispatcher (C11) Payment
// Ingestion drives directly.
type Notifier interface {
	NotifyPaymentSuccess(ctx context.Context, order *types.Order, payment *types.Payment) error
	NotifyOrderStatusUpdate(ctx context.Context, order *types.Order) error
}

// Service is the C9 webhook handler.
type Service struct {
	queries     db.Querier
	secret      string
	fulfillment FulfillmentInvoker
	notifier    Notifier
}

func NewService(queries db.Querier, webhookSecret string, fulfillmentSvc FulfillmentInvoker, notifier Notifier) *Service {
	return &Service{queries: queries, secret: webhookSecret, fulfillment: fulfillmentSvc, notifier: notifier}
}

// HandleStripeWebhook runs §4.8 steps 2-5. The raw body and signature
// header are read by the HTTP layer (internal/api); this is the part
// that is exercised identically from that layer and from tests.
// An *errors.AuthError return means "respond 400, the provider will not
// retry a bad signature"; any other error means "respond 500, the
// provider will retry the delivery".
func (s *Service) HandleStripeWebhook(ctx context.Context, body []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(body, signatureHeader, s.secret)
	if err != nil {
		return dberrors.Auth("stripe signature verification failed: " + err.Error())
	}

	existing, err := s.queries.GetWebhookEventByProviderEventID(ctx, providerStripe, event.ID)
	if err != nil {
		return dberrors.Wrap(err, "webhook dedup lookup")
	}
	if existing != nil {
		logger.Info("duplicate stripe webhook event, skipping", zap.String("event_id", event.ID))
		return nil
	}

	if err := s.dispatch(ctx, &event); err != nil {
		return err
	}

	hash := sha256.Sum256(body)
	_, err = s.queries.CreateWebhookEvent(ctx, db.CreateWebhookEventParams{
		Provider:    providerStripe,
		ExternalID:  event.ID,
		EventType:   string(event.Type),
		PayloadHash: hex.EncodeToString(hash[:]),
		Data:        map[string]any{"type": string(event.Type)},
	})
	if err != nil {
		return dberrors.Wrap(err, "webhook dedup insert")
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return s.handlePaymentSucceeded(ctx, event)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return s.handlePaymentFailed(ctx, event)
	case stripe.EventTypeCheckoutSessionCompleted:
		logger.Info("checkout session completed", zap.String("event_id", event.ID))
		return nil
	default:
		return nil
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return dberrors.Wrap(err, "unmarshal payment_intent.succeeded")
	}

	orderID, err := orderIDFromMetadata(pi.Metadata)
	if err != nil {
		return err
	}

	payment, err := s.resolvePayment(ctx, orderID, pi.ID, pi.Amount, string(pi.Currency))
	if err != nil {
		return err
	}
	previouslySucceeded := payment.Status == types.PaymentStatusSucceeded

	now := time.Now()
	if err := s.queries.UpdatePaymentStatus(ctx, payment.ID, types.PaymentStatusSucceeded, nil, &now); err != nil {
		return dberrors.Wrap(err, "mark payment succeeded")
	}

	if previouslySucceeded {
		return nil
	}

	order, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		return dberrors.Wrap(err, "load order for payment success")
	}

	if s.notifier != nil {
		payment.Status = types.PaymentStatusSucceeded
		if nerr := s.notifier.NotifyPaymentSuccess(ctx, order, payment); nerr != nil {
			logger.Warn("payment success notification failed", zap.String("order_id", orderID.String()), zap.Error(nerr))
		}
	}

	if _, err := s.fulfillment.ProcessOrderFulfillment(ctx, orderID); err != nil {
		return dberrors.Wrap(err, "kickoff fulfillment after payment success")
	}
	return nil
}

func (s *Service) handlePaymentFailed(ctx context.Context, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return dberrors.Wrap(err, "unmarshal payment_intent.payment_failed")
	}

	orderID, err := orderIDFromMetadata(pi.Metadata)
	if err != nil {
		return err
	}

	payment, err := s.resolvePayment(ctx, orderID, pi.ID, pi.Amount, string(pi.Currency))
	if err != nil {
		return err
	}

	failureReason := "payment failed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		failureReason = pi.LastPaymentError.Msg
	}
	if err := s.queries.UpdatePaymentStatus(ctx, payment.ID, types.PaymentStatusFailed, &failureReason, nil); err != nil {
		return dberrors.Wrap(err, "mark payment failed")
	}

	order, err := s.queries.GetOrder(ctx, orderID)
	if err != nil {
		return dberrors.Wrap(err, "load order for payment failure")
	}
	if order.Status == types.OrderStatusCanceled || order.Status == types.OrderStatusCompleted {
		return nil
	}

	from := order.Status
	if err := s.queries.UpdateOrderStatus(ctx, orderID, types.OrderStatusOnHold); err != nil {
		return dberrors.Wrap(err, "set order on_hold after payment failure")
	}
	note := "payment failed: " + failureReason
	to := types.OrderStatusOnHold
	if err := s.queries.InsertOrderStateEvent(ctx, db.InsertOrderStateEventParams{
		OrderID: orderID, EventType: types.EventTypeStateChange, ActorType: types.ActorSystem,
		FromStatus: &from, ToStatus: &to, Notes: &note,
	}); err != nil {
		return dberrors.Wrap(err, "record payment failure state event")
	}
	order.Status = types.OrderStatusOnHold

	if s.notifier != nil {
		if nerr := s.notifier.NotifyOrderStatusUpdate(ctx, order); nerr != nil {
			logger.Warn("order status notification failed", zap.String("order_id", orderID.String()), zap.Error(nerr))
		}
	}
	return nil
}

// resolvePayment finds the payment row a checkout created ahead of the
// provider round-trip, creating one on the fly if the webhook arrives
// before that row does (provider event races are possible, never
// assumed absent).
func (s *Service) resolvePayment(ctx context.Context, orderID uuid.UUID, providerReference string, amountCents int64, currency string) (*types.Payment, error) {
	payment, err := s.queries.GetPaymentByProviderReference(ctx, providerStripe, providerReference)
	if err != nil {
		return nil, dberrors.Wrap(err, "lookup payment by provider reference")
	}
	if payment != nil {
		return payment, nil
	}
	return s.queries.CreatePayment(ctx, db.CreatePaymentParams{
		OrderID:           orderID,
		Provider:          providerStripe,
		ProviderReference: providerReference,
		Status:            types.PaymentStatusPending,
		Amount:            types.Money(amountCents),
		Currency:          currency,
	})
}

func orderIDFromMetadata(metadata map[string]string) (uuid.UUID, error) {
	raw, ok := metadata["order_id"]
	if !ok || raw == "" {
		return uuid.UUID{}, dberrors.Validation("metadata.order_id", "missing order id on payment intent")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, dberrors.Validation("metadata.order_id", "invalid order id")
	}
	return orderID, nil
}
