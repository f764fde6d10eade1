package replay_test

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
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/replay"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func TestRunOnce_ExecutesDueEntryAndPersistsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	providerID := uuid.New()
	serviceID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()
	poID := uuid.New()
	entryID := uuid.New()

	provider := &types.FulfillmentProvider{ID: providerID}
	provider.MetadataJSON.Automation.Endpoints.Order = &types.Endpoint{Method: "POST", URL: server.URL}

	po := types.FulfillmentProviderOrder{
		ID: poID, ProviderID: providerID, ServiceID: serviceID,
		OrderID: orderID, OrderItemID: itemID,
		Payload: types.ProviderOrderPayload{
			ProviderOrderID: "po_123",
			ScheduledReplays: []types.ScheduledReplayEntry{
				{ID: entryID, Status: types.ScheduledReplayScheduled, ScheduledFor: time.Now().Add(-time.Minute), Currency: "USD"},
			},
		},
	}

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListProviderOrdersWithDueScheduledReplays(gomock.Any(), gomock.Any()).Return([]types.FulfillmentProviderOrder{po}, nil)
	mockQuerier.EXPECT().GetProviderOrderForUpdate(gomock.Any(), poID).Return(&po, nil)
	mockQuerier.EXPECT().GetProvider(gomock.Any(), providerID).Return(provider, nil)
	mockQuerier.EXPECT().UpdateProviderOrderPayload(gomock.Any(), poID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, payload types.ProviderOrderPayload) error {
			require.Len(t, payload.ScheduledReplays, 1)
			assert.Equal(t, types.ScheduledReplayExecuted, payload.ScheduledReplays[0].Status)
			require.Len(t, payload.Replays, 1)
			assert.Equal(t, types.ReplayStatusExecuted, payload.Replays[0].Status)
			assert.Equal(t, "USD", payload.Replays[0].Currency)
			return nil
		})
	mockQuerier.EXPECT().CreateProviderAutomationRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run types.ProviderAutomationRun) error {
			assert.Equal(t, types.AutomationRunReplay, run.RunType)
			assert.Equal(t, 1, run.Processed)
			assert.Equal(t, 1, run.Succeeded)
			return nil
		})

	automationSvc := automation.NewService(mockQuerier, providerhttp.New())
	worker := replay.New(mockQuerier, automationSvc)
	worker.RunOnce(context.Background())
}
