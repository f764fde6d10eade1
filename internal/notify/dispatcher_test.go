package notify_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smplat/fulfillment/internal/db/dbmock"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/notify"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func TestDispatcher_NotifyOrderStatusUpdate_GatedByPreference(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	order := &types.Order{ID: uuid.New(), OrderNumber: "ORD-1", UserID: &userID, Status: types.OrderStatusActive}

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetNotificationPreference(gomock.Any(), userID).Return(&types.NotificationPreference{
		UserID: userID, OrderUpdates: false,
	}, nil)

	email := &notify.MemoryEmailBackend{}
	d := notify.NewDispatcher(mockQuerier, email, nil, nil)

	err := d.NotifyOrderStatusUpdate(context.Background(), order)
	require.NoError(t, err)
	assert.Empty(t, email.Sent)
	assert.Empty(t, d.Events())
}

func TestDispatcher_NotifyPaymentSuccess_DeliversWhenAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	order := &types.Order{ID: uuid.New(), OrderNumber: "ORD-2", UserID: &userID}
	payment := &types.Payment{ID: uuid.New(), Amount: 1999, Currency: "USD"}

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetNotificationPreference(gomock.Any(), userID).Return(&types.NotificationPreference{
		UserID: userID, PaymentUpdates: true,
	}, nil)

	email := &notify.MemoryEmailBackend{}
	d := notify.NewDispatcher(mockQuerier, email, nil, nil)

	err := d.NotifyPaymentSuccess(context.Background(), order, payment)
	require.NoError(t, err)
	require.Len(t, email.Sent, 1)
	assert.Contains(t, email.Sent[0].Subject, "ORD-2")

	events := d.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.KindPaymentSuccess, events[0].EventType)
}

func TestDispatcher_NotifyFulfillmentRetry_ResolvesOrderFromTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()
	taskID := uuid.New()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetOrderItem(gomock.Any(), itemID).Return(&types.OrderItem{ID: itemID, OrderID: orderID}, nil)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, OrderNumber: "ORD-3", UserID: &userID}, nil)
	mockQuerier.EXPECT().GetNotificationPreference(gomock.Any(), userID).Return(&types.NotificationPreference{
		UserID: userID, FulfillmentAlerts: true,
	}, nil)

	email := &notify.MemoryEmailBackend{}
	d := notify.NewDispatcher(mockQuerier, email, nil, nil)

	task := &types.FulfillmentTask{ID: taskID, OrderItemID: itemID, TaskType: types.TaskTypeContentPromotion, RetryCount: 1}
	err := d.NotifyFulfillmentRetry(context.Background(), task, "boom")
	require.NoError(t, err)
	require.Len(t, email.Sent, 1)
}

func TestDispatcher_NoRecipient_NoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	email := &notify.MemoryEmailBackend{}
	d := notify.NewDispatcher(mockQuerier, email, nil, nil)

	order := &types.Order{ID: uuid.New(), OrderNumber: "ORD-4"}
	err := d.NotifyOrderStatusUpdate(context.Background(), order)
	require.NoError(t, err)
	assert.Empty(t, email.Sent)
}
