package orderstate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smplat/fulfillment/internal/db"
	"github.com/smplat/fulfillment/internal/db/dbmock"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/orderstate"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func TestCanTransition_CanceledIsTerminal(t *testing.T) {
	assert.False(t, orderstate.CanTransition(types.OrderStatusCanceled, types.OrderStatusProcessing))
	assert.False(t, orderstate.CanTransition(types.OrderStatusCanceled, types.OrderStatusActive))
}

func TestCanTransition_CompletedOnlyFromActiveProcessingOrOnHold(t *testing.T) {
	assert.True(t, orderstate.CanTransition(types.OrderStatusActive, types.OrderStatusCompleted))
	assert.True(t, orderstate.CanTransition(types.OrderStatusProcessing, types.OrderStatusCompleted))
	assert.True(t, orderstate.CanTransition(types.OrderStatusOnHold, types.OrderStatusCompleted))
	assert.False(t, orderstate.CanTransition(types.OrderStatusPending, types.OrderStatusCompleted))
}

func TestTransition_RejectsIllegalEdgeWithoutTouchingDB(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	// No UpdateOrderStatus/InsertOrderStateEvent expectations: an illegal
	// transition must never reach the database.

	m := orderstate.NewMachine(mockQuerier)
	err := m.Transition(context.Background(), uuid.New(), types.OrderStatusPending, types.OrderStatusCompleted, types.ActorSystem, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestTransition_RejectsOutOfCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	m := orderstate.NewMachine(mockQuerier)
	err := m.Transition(context.Background(), uuid.New(), types.OrderStatusCanceled, types.OrderStatusActive, types.ActorSystem, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestTransition_UpdatesStatusAndRecordsEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().UpdateOrderStatus(gomock.Any(), orderID, types.OrderStatusProcessing).Return(nil)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.InsertOrderStateEventParams) error {
			return nil
		})

	m := orderstate.NewMachine(mockQuerier)
	err := m.Transition(context.Background(), orderID, types.OrderStatusPending, types.OrderStatusProcessing, types.ActorSystem, nil, nil, nil, nil)
	require.NoError(t, err)
}

func TestRecordEvent_SwallowsAuditFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().InsertOrderStateEvent(gomock.Any(), gomock.Any()).
		Return(assertErr{})

	m := orderstate.NewMachine(mockQuerier)
	assert.NotPanics(t, func() {
		m.RecordEvent(context.Background(), db.InsertOrderStateEventParams{
			OrderID:   uuid.New(),
			EventType: types.EventTypeNote,
			ActorType: types.ActorSystem,
		})
	})
}

type assertErr struct{}

func (assertErr) Error() string { return "insert failed" }
