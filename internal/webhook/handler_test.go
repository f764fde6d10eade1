package webhook_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripewh "github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/mock/gomock"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/db/dbmock"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/types"
	"github.com/smplat/fulfillment/internal/webhook"
)

func init() {
	logger.InitLogger("test")
}

type fakeFulfillment struct{ calledWith *uuid.UUID }

func (f *fakeFulfillment) ProcessOrderFulfillment(ctx context.Context, orderID uuid.UUID) (bool, error) {
	f.calledWith = &orderID
	return true, nil
}

type fakeNotifier struct {
	paymentSuccessCalls int
	statusUpdateCalls   int
}

func (f *fakeNotifier) NotifyPaymentSuccess(ctx context.Context, order *types.Order, payment *types.Payment) error {
	f.paymentSuccessCalls++
	return nil
}

func (f *fakeNotifier) NotifyOrderStatusUpdate(ctx context.Context, order *types.Order) error {
	f.statusUpdateCalls++
	return nil
}

func signedPayload(t *testing.T, eventType string, data map[string]any) ([]byte, string, string) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"id":   "evt_" + uuid.NewString(),
		"type": eventType,
		"data": map[string]any{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)

	signed := stripewh.GenerateTestSignedPayload(payload)
	return signed.Payload, signed.Header, signed.Secret
}

func TestHandleStripeWebhook_PaymentSucceededKicksOffFulfillment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	paymentID := uuid.New()

	payload, header, secret := signedPayload(t, "payment_intent.succeeded", map[string]any{
		"id": "pi_123", "amount": 1999, "currency": "usd",
		"metadata": map[string]string{"order_id": orderID.String()},
	})

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetWebhookEventByProviderEventID(gomock.Any(), "stripe", gomock.Any()).Return(nil, nil)
	mockQuerier.EXPECT().GetPaymentByProviderReference(gomock.Any(), "stripe", "pi_123").Return(nil, nil)
	mockQuerier.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(&types.Payment{
		ID: paymentID, OrderID: orderID, Status: types.PaymentStatusPending,
	}, nil)
	mockQuerier.EXPECT().UpdatePaymentStatus(gomock.Any(), paymentID, types.PaymentStatusSucceeded, (*string)(nil), gomock.Any()).Return(nil)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusPending}, nil)
	mockQuerier.EXPECT().CreateWebhookEvent(gomock.Any(), gomock.Any()).Return(&types.WebhookEvent{}, nil)

	fulfillmentSvc := &fakeFulfillment{}
	notifier := &fakeNotifier{}
	svc := webhook.NewService(mockQuerier, secret, fulfillmentSvc, notifier)

	err := svc.HandleStripeWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	require.NotNil(t, fulfillmentSvc.calledWith)
	assert.Equal(t, orderID, *fulfillmentSvc.calledWith)
	assert.Equal(t, 1, notifier.paymentSuccessCalls)
}

func TestHandleStripeWebhook_DuplicateEventSkipsSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	payload, header, secret := signedPayload(t, "payment_intent.succeeded", map[string]any{
		"id": "pi_456", "amount": 500, "currency": "usd",
		"metadata": map[string]string{"order_id": orderID.String()},
	})

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetWebhookEventByProviderEventID(gomock.Any(), "stripe", gomock.Any()).
		Return(&types.WebhookEvent{Provider: "stripe"}, nil)

	svc := webhook.NewService(mockQuerier, secret, &fakeFulfillment{}, &fakeNotifier{})
	err := svc.HandleStripeWebhook(context.Background(), payload, header)
	require.NoError(t, err)
}

func TestHandleStripeWebhook_BadSignatureReturnsAuthError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	svc := webhook.NewService(mockQuerier, "whsec_test", &fakeFulfillment{}, &fakeNotifier{})

	err := svc.HandleStripeWebhook(context.Background(), []byte(`{}`), "t=1,v1=bad")
	require.Error(t, err)
}

func TestHandleStripeWebhook_PaymentFailedSetsOrderOnHold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	paymentID := uuid.New()

	payload, header, secret := signedPayload(t, "payment_intent.payment_failed", map[string]any{
		"id": "pi_789", "amount": 2500, "currency": "usd",
		"metadata": map[string]string{"order_id": orderID.String()},
		"last_payment_error": map[string]any{"message": "card declined"},
	})

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetWebhookEventByProviderEventID(gomock.Any(), "stripe", gomock.Any()).Return(nil, nil)
	mockQuerier.EXPECT().GetPaymentByProviderReference(gomock.Any(), "stripe", "pi_789").Return(&types.Payment{
		ID: paymentID, OrderID: orderID, Status: types.PaymentStatusPending,
	}, nil)
	mockQuerier.EXPECT().UpdatePaymentStatus(gomock.Any(), paymentID, types.PaymentStatusFailed, gomock.Any(), (*time.Time)(nil)).Return(nil)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusProcessing}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusOnHold).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)
	mockQuerier.EXPECT().CreateWebhookEvent(gomock.Any(), gomock.Any()).Return(&types.WebhookEvent{}, nil)

	notifier := &fakeNotifier{}
	svc := webhook.NewService(mockQuerier, secret, &fakeFulfillment{}, notifier)

	err := svc.HandleStripeWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.statusUpdateCalls)
}
