package fulfillment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smplat/fulfillment/internal/automation"
	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/db/dbmock"
	"github.com/smplat/fulfillment/internal/fulfillment"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

type fakeNotifier struct {
	statusCalls     int
	completionCalls int
	retryCalls      int
}

func (f *fakeNotifier) NotifyOrderStatusUpdate(ctx context.Context, order *types.Order) error {
	f.statusCalls++
	return nil
}

func (f *fakeNotifier) NotifyFulfillmentCompletion(ctx context.Context, order *types.Order) error {
	f.completionCalls++
	return nil
}

func (f *fakeNotifier) NotifyFulfillmentRetry(ctx context.Context, task *types.FulfillmentTask, errorMessage string) error {
	f.retryCalls++
	return nil
}

func newTestService(t *testing.T, q db.Querier, notifier fulfillment.Notifier) *fulfillment.Service {
	t.Helper()
	automationSvc := automation.NewService(q, providerhttp.New())
	machine := orderstate.NewMachine(q)
	return fulfillment.NewService(q, automationSvc, machine, notifier)
}

func TestProcessOrderFulfillment_NoOpWhenNotPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{
		ID:     orderID,
		Status: types.OrderStatusActive,
	}, nil)

	svc := newTestService(t, mockQuerier, &fakeNotifier{})
	ok, err := svc.ProcessOrderFulfillment(context.Background(), orderID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessOrderFulfillment_TransitionsAndMaterializes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	itemID := uuid.New()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{
		ID:       orderID,
		Status:   types.OrderStatusPending,
		Currency: "USD",
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusProcessing).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)
	mockQuerier.EXPECT().ListOrderItemsByOrder(gomock.Any(), orderID).Return([]types.OrderItem{
		{ID: itemID, OrderID: orderID, ProductTitle: "Growth Package", Quantity: 1},
	}, nil)
	mockQuerier.EXPECT().GetProduct(gomock.Any(), gomock.Any()).Return(nil, assertErr{}).AnyTimes()
	mockQuerier.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.CreateTaskParams) (*types.FulfillmentTask, error) {
			return &types.FulfillmentTask{ID: uuid.New(), OrderItemID: arg.OrderItemID, TaskType: arg.TaskType}, nil
		}).AnyTimes()

	notifier := &fakeNotifier{}
	svc := newTestService(t, mockQuerier, notifier)
	ok, err := svc.ProcessOrderFulfillment(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, notifier.statusCalls)
}

func TestMaterializeTasks_CategoryDefaultsForNonInstagram(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetProduct(gomock.Any(), gomock.Any()).Return(nil, assertErr{})
	mockQuerier.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.CreateTaskParams) (*types.FulfillmentTask, error) {
			assert.Equal(t, types.TaskTypeContentPromotion, arg.TaskType)
			return &types.FulfillmentTask{ID: uuid.New(), OrderItemID: arg.OrderItemID, TaskType: arg.TaskType}, nil
		})

	svc := newTestService(t, mockQuerier, nil)
	productID := uuid.New()
	order := &types.Order{ID: uuid.New(), Currency: "USD"}
	item := &types.OrderItem{ID: uuid.New(), ProductID: &productID}

	tasks, err := svc.MaterializeTasks(context.Background(), order, item)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, types.TaskTypeContentPromotion, tasks[0].TaskType)
}

func TestMaterializeTasks_InstagramCategoryYieldsFourTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetProduct(gomock.Any(), productID).Return(&types.Product{
		ID:       productID,
		Category: "instagram",
	}, nil)
	mockQuerier.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.CreateTaskParams) (*types.FulfillmentTask, error) {
			return &types.FulfillmentTask{ID: uuid.New(), OrderItemID: arg.OrderItemID, TaskType: arg.TaskType}, nil
		}).Times(4)

	svc := newTestService(t, mockQuerier, nil)
	order := &types.Order{ID: uuid.New(), Currency: "USD"}
	item := &types.OrderItem{ID: uuid.New(), ProductID: &productID}

	tasks, err := svc.MaterializeTasks(context.Background(), order, item)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestMaterializeTasks_SkipsUnknownConfiguredTypeAndFallsBackToDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetProduct(gomock.Any(), productID).Return(&types.Product{
		ID:       productID,
		Category: "other",
		FulfillmentConfig: &types.FulfillmentConfig{
			Tasks: []types.ConfiguredTask{
				{Type: types.TaskType("made_up_type")},
			},
		},
	}, nil)
	mockQuerier.EXPECT().CreateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.CreateTaskParams) (*types.FulfillmentTask, error) {
			assert.Equal(t, types.TaskTypeContentPromotion, arg.TaskType)
			return &types.FulfillmentTask{ID: uuid.New(), OrderItemID: arg.OrderItemID, TaskType: arg.TaskType}, nil
		})

	svc := newTestService(t, mockQuerier, nil)
	order := &types.Order{ID: uuid.New(), Currency: "USD"}
	item := &types.OrderItem{ID: uuid.New(), ProductID: &productID}

	tasks, err := svc.MaterializeTasks(context.Background(), order, item)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, types.TaskTypeContentPromotion, tasks[0].TaskType)
}

func TestRecomputeOrderStatus_AnyFailedMovesOrderOnHold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{
		ID:     orderID,
		Status: types.OrderStatusProcessing,
	}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusFailed, RetryCount: 3, MaxRetries: 3},
		{Status: types.TaskStatusCompleted},
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusOnHold).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)

	notifier := &fakeNotifier{}
	svc := newTestService(t, mockQuerier, notifier)
	err := svc.RecomputeOrderStatus(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.statusCalls)
}

func TestRecomputeOrderStatus_AllCompletedFinishesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{
		ID:     orderID,
		Status: types.OrderStatusActive,
	}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusCompleted},
		{Status: types.TaskStatusCompleted},
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusCompleted).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)

	notifier := &fakeNotifier{}
	svc := newTestService(t, mockQuerier, notifier)
	err := svc.RecomputeOrderStatus(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.completionCalls)
}

func TestScheduleRetry_PushesStatusPendingAndBumpsRetryCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.UpdateTaskParams) error {
			assert.Equal(t, taskID, arg.ID)
			assert.Equal(t, types.TaskStatusPending, arg.Status)
			assert.Equal(t, 2, arg.RetryCount)
			assert.Nil(t, arg.Result)
			return nil
		})

	notifier := &fakeNotifier{}
	svc := newTestService(t, mockQuerier, notifier)
	task := &types.FulfillmentTask{
		ID:         taskID,
		Status:     types.TaskStatusFailed,
		RetryCount: 1,
		Result:     map[string]any{"stale": true},
	}
	err := svc.ScheduleRetry(context.Background(), task, 5*time.Minute, "provider timeout")
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusPending, task.Status)
	assert.Equal(t, 2, task.RetryCount)
	assert.Equal(t, 1, notifier.retryCalls)
}

type assertErr struct{}

func (assertErr) Error() string { return "not found" }
