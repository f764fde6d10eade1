package processor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
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
	"github.com/smplat/fulfillment/internal/metrics"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/processor"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func newLoop(t *testing.T, q db.Querier) *processor.Loop {
	t.Helper()
	automationSvc := automation.NewService(q, providerhttp.New())
	machine := orderstate.NewMachine(q)
	fulfillmentSvc := fulfillment.NewService(q, automationSvc, machine, nil)
	return processor.New(q, fulfillmentSvc, metrics.NewProcessorStore())
}

func TestRunOnce_CompletesBuiltInHandlerTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskID := uuid.New()
	itemID := uuid.New()
	orderID := uuid.New()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListDueTasks(gomock.Any(), gomock.Any()).Return([]types.FulfillmentTask{
		{ID: taskID, OrderItemID: itemID, TaskType: types.TaskTypeContentPromotion, Status: types.TaskStatusPending, MaxRetries: 3},
	}, nil)
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.UpdateTaskParams) error {
			assert.Equal(t, taskID, arg.ID)
			return nil
		}).Times(2) // claim + complete
	mockQuerier.EXPECT().GetOrderItem(gomock.Any(), itemID).Return(&types.OrderItem{ID: itemID, OrderID: orderID}, nil)
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusProcessing}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusCompleted},
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusCompleted).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)

	loop := newLoop(t, mockQuerier)
	loop.RunOnce(context.Background())

	snapshot := loop.Metrics()
	assert.EqualValues(t, 1, snapshot.TasksProcessed)
}

func TestRunOnce_DeadLettersWhenRetryBudgetExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskID := uuid.New()
	itemID := uuid.New()
	orderID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListDueTasks(gomock.Any(), gomock.Any()).Return([]types.FulfillmentTask{
		{
			ID: taskID, OrderItemID: itemID, TaskType: types.TaskTypeContentPromotion,
			Status: types.TaskStatusPending, RetryCount: 3, MaxRetries: 3,
			Payload: &types.TaskPayload{Execution: &types.Execution{Kind: "http", Method: "GET", URL: server.URL}},
		},
	}, nil)
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.UpdateTaskParams) error {
			if arg.Status == types.TaskStatusFailed {
				result, ok := arg.Result["deadLetter"].(bool)
				assert.True(t, ok && result)
			}
			return nil
		}).Times(2) // claim + dead-letter
	mockQuerier.EXPECT().GetOrderItem(gomock.Any(), itemID).Return(&types.OrderItem{ID: itemID, OrderID: orderID}, nil).
		Times(2) // render-context product lookup + owning-order recompute
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusProcessing}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusFailed, RetryCount: 3, MaxRetries: 3},
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusOnHold).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)

	loop := newLoop(t, mockQuerier)
	loop.RunOnce(context.Background())

	snapshot := loop.Metrics()
	assert.EqualValues(t, 1, snapshot.TasksFailed)
	assert.EqualValues(t, 1, snapshot.TasksDeadLettered)
}

func TestRunOnce_SchedulesRetryWithinBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskID := uuid.New()
	itemID := uuid.New()
	orderID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListDueTasks(gomock.Any(), gomock.Any()).Return([]types.FulfillmentTask{
		{
			ID: taskID, OrderItemID: itemID, TaskType: types.TaskTypeContentPromotion,
			Status: types.TaskStatusPending, RetryCount: 0, MaxRetries: 3,
			Payload: &types.TaskPayload{Execution: &types.Execution{Kind: "http", Method: "GET", URL: server.URL}},
		},
	}, nil)
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).Return(nil) // claim
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.UpdateTaskParams) error {
			assert.Equal(t, types.TaskStatusPending, arg.Status)
			assert.Equal(t, 1, arg.RetryCount)
			return nil
		}) // retry
	mockQuerier.EXPECT().GetOrderItem(gomock.Any(), itemID).Return(&types.OrderItem{ID: itemID, OrderID: orderID}, nil).
		Times(2) // render-context product lookup + owning-order recompute
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusProcessing}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusPending},
	}, nil)

	loop := newLoop(t, mockQuerier)
	loop.RunOnce(context.Background())

	snapshot := loop.Metrics()
	assert.EqualValues(t, 1, snapshot.TasksRetried)
	_ = time.Second
}

func TestRunOnce_TemplateErrorDeadLettersWithoutRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taskID := uuid.New()
	itemID := uuid.New()
	orderID := uuid.New()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListDueTasks(gomock.Any(), gomock.Any()).Return([]types.FulfillmentTask{
		{
			ID: taskID, OrderItemID: itemID, TaskType: types.TaskTypeContentPromotion,
			Status: types.TaskStatusPending, RetryCount: 0, MaxRetries: 3,
			Payload: &types.TaskPayload{Execution: &types.Execution{
				Kind: "http", Method: "GET", URL: "https://example.test/{{ missing.field }}",
			}},
		},
	}, nil)
	mockQuerier.EXPECT().UpdateTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.UpdateTaskParams) error {
			if arg.Status == types.TaskStatusFailed {
				result, ok := arg.Result["deadLetter"].(bool)
				assert.True(t, ok && result)
				assert.Equal(t, 0, arg.RetryCount)
			}
			return nil
		}).Times(2) // claim + dead-letter, never a retry reschedule
	mockQuerier.EXPECT().GetOrderItem(gomock.Any(), itemID).Return(&types.OrderItem{ID: itemID, OrderID: orderID}, nil).
		Times(2) // render-context product lookup + owning-order recompute
	mockQuerier.EXPECT().GetOrder(gomock.Any(), orderID).Return(&types.Order{ID: orderID, Status: types.OrderStatusProcessing}, nil)
	mockQuerier.EXPECT().ListTasksByOrder(gomock.Any(), orderID).Return([]types.FulfillmentTask{
		{Status: types.TaskStatusFailed, RetryCount: 0, MaxRetries: 3},
	}, nil)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusOnHold).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).Return(nil)

	loop := newLoop(t, mockQuerier)
	loop.RunOnce(context.Background())

	snapshot := loop.Metrics()
	assert.EqualValues(t, 1, snapshot.TasksFailed)
	assert.EqualValues(t, 1, snapshot.TasksDeadLettered)
	assert.EqualValues(t, 0, snapshot.TasksRetried)
}
