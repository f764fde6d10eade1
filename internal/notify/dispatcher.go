package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
)

// Kind identifies which preference flag and renderer a delivery uses.
type Kind string

const (
	KindPaymentSuccess       Kind = "payment_success"
	KindOrderStatusUpdate    Kind = "order_status_update"
	KindFulfillmentCompletion Kind = "fulfillment_completion"
	KindFulfillmentRetry     Kind = "fulfillment_retry"
)

// NotificationEvent is recorded in-memory for every delivery attempted
// (gated-out deliveries never reach here), per §4.10.
type NotificationEvent struct {
	Recipient string
	Subject   string
	TextBody  string
	HTMLBody  string
	EventType Kind
	Metadata  map[string]any
	CreatedAt time.Time
}

// Dispatcher is the C11 entrypoint. It is the concrete type wired into
// C5's and C9's small consumer-side Notifier interfaces.
type Dispatcher struct {
	queries db.Querier
	email   EmailBackend
	sms     SMSBackend
	push    PushBackend

	mu     sync.Mutex
	events []NotificationEvent
}

func NewDispatcher(queries db.Querier, email EmailBackend, sms SMSBackend, push PushBackend) *Dispatcher {
	return &Dispatcher{queries: queries, email: email, sms: sms, push: push}
}

// Events returns every notification recorded so far, for inspection by
// tests and the health/status surface.
func (d *Dispatcher) Events() []NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]NotificationEvent, len(d.events))
	copy(out, d.events)
	return out
}

func (d *Dispatcher) record(evt NotificationEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	evt.CreatedAt = time.Now()
	d.events = append(d.events, evt)
}

// allowed consults NotificationPreference keyed by userID and reports
// whether kind's gate is open, per §4.10's flag-to-kind mapping. A
// missing preference row defaults open (DefaultNotificationPreference),
// matching a brand new user who never touched their settings.
func (d *Dispatcher) allowed(ctx context.Context, userID uuid.UUID, kind Kind) bool {
	pref, err := d.queries.GetNotificationPreference(ctx, userID)
	if err != nil {
		logger.Warn("notification preference lookup failed, defaulting open",
			zap.String("user_id", userID.String()), zap.Error(err))
		return true
	}
	if pref == nil {
		return true
	}
	switch kind {
	case KindPaymentSuccess:
		return pref.PaymentUpdates
	case KindOrderStatusUpdate:
		return pref.OrderUpdates
	case KindFulfillmentCompletion, KindFulfillmentRetry:
		return pref.FulfillmentAlerts
	default:
		return true
	}
}

func (d *Dispatcher) deliver(ctx context.Context, recipient string, kind Kind, r Rendered) {
	if d.email != nil {
		if err := d.email.Send(ctx, EmailMessage{To: recipient, Subject: r.Subject, Text: r.TextBody, HTML: r.HTMLBody}); err != nil {
			logger.Warn("email delivery failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
	d.record(NotificationEvent{Recipient: recipient, Subject: r.Subject, TextBody: r.TextBody, HTMLBody: r.HTMLBody, EventType: kind})
}

func recipientFor(order *types.Order) (uuid.UUID, string, bool) {
	if order.UserID == nil {
		return uuid.UUID{}, "", false
	}
	return *order.UserID, order.UserID.String(), true
}

// NotifyPaymentSuccess satisfies webhook.Notifier.
func (d *Dispatcher) NotifyPaymentSuccess(ctx context.Context, order *types.Order, payment *types.Payment) error {
	userID, recipient, ok := recipientFor(order)
	if !ok {
		return nil
	}
	if !d.allowed(ctx, userID, KindPaymentSuccess) {
		return nil
	}
	d.deliver(ctx, recipient, KindPaymentSuccess, renderPaymentSuccess(order, payment))
	return nil
}

// NotifyOrderStatusUpdate satisfies fulfillment.Notifier and webhook.Notifier.
func (d *Dispatcher) NotifyOrderStatusUpdate(ctx context.Context, order *types.Order) error {
	userID, recipient, ok := recipientFor(order)
	if !ok {
		return nil
	}
	if !d.allowed(ctx, userID, KindOrderStatusUpdate) {
		return nil
	}
	d.deliver(ctx, recipient, KindOrderStatusUpdate, renderOrderStatusUpdate(order))
	return nil
}

// NotifyFulfillmentCompletion satisfies fulfillment.Notifier.
func (d *Dispatcher) NotifyFulfillmentCompletion(ctx context.Context, order *types.Order) error {
	userID, recipient, ok := recipientFor(order)
	if !ok {
		return nil
	}
	if !d.allowed(ctx, userID, KindFulfillmentCompletion) {
		return nil
	}
	d.deliver(ctx, recipient, KindFulfillmentCompletion, renderFulfillmentCompletion(order))
	return nil
}

// NotifyFulfillmentRetry satisfies fulfillment.Notifier. A task only
// carries its order item id, so the owning order (and its user) is
// resolved here rather than by the caller.
func (d *Dispatcher) NotifyFulfillmentRetry(ctx context.Context, task *types.FulfillmentTask, errorMessage string) error {
	item, err := d.queries.GetOrderItem(ctx, task.OrderItemID)
	if err != nil {
		return err
	}
	order, err := d.queries.GetOrder(ctx, item.OrderID)
	if err != nil {
		return err
	}
	userID, recipient, ok := recipientFor(order)
	if !ok {
		return nil
	}
	if !d.allowed(ctx, userID, KindFulfillmentRetry) {
		return nil
	}
	d.deliver(ctx, recipient, KindFulfillmentRetry, renderFulfillmentRetry(task, errorMessage))
	return nil
}
