package automation_test

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
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func newProvider(t *testing.T, id uuid.UUID, orderURL string) *types.FulfillmentProvider {
	t.Helper()
	p := &types.FulfillmentProvider{ID: id, Name: "acme"}
	p.MetadataJSON.Automation.Endpoints.Order = &types.Endpoint{
		Method: "POST",
		URL:    orderURL,
		Response: map[string]any{"provider_order_id_path": "data.order_id"},
	}
	return p
}

func TestExtractOverrides_FiltersToServiceOverrideAddOns(t *testing.T) {
	serviceID := uuid.New()
	providerID := uuid.New()
	item := types.OrderItem{
		SelectedOptions: &types.SelectedOptions{
			AddOns: []types.AddOn{
				{PricingMode: "flat", PriceDelta: types.NewMoney(5)},
				{PricingMode: "serviceOverride", ServiceID: &serviceID, ServiceProviderID: &providerID, PriceDelta: types.NewMoney(10)},
			},
		},
	}

	svc := automation.NewService(nil, nil)
	overrides := svc.ExtractOverrides(item, "USD")
	require.Len(t, overrides, 1)
	assert.Equal(t, serviceID, overrides[0].ServiceID)
	assert.Equal(t, providerID, overrides[0].ProviderID)
	assert.Equal(t, "provider_order", overrides[0].FulfillmentMode)
}

func TestCreateProviderOrder_PersistsResolvedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"order_id":"prov-99"}}`))
	}))
	defer srv.Close()

	serviceID := uuid.New()
	providerID := uuid.New()
	orderID := uuid.New()
	itemID := uuid.New()

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetService(gomock.Any(), serviceID).
		Return(&types.FulfillmentService{ID: serviceID}, nil)
	mockQuerier.EXPECT().GetProvider(gomock.Any(), providerID).
		Return(newProvider(t, providerID, srv.URL), nil)
	mockQuerier.EXPECT().CreateProviderOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg db.CreateProviderOrderParams) (*types.FulfillmentProviderOrder, error) {
			assert.Equal(t, "prov-99", arg.Payload.ProviderOrderID)
			return &types.FulfillmentProviderOrder{ID: uuid.New(), Payload: arg.Payload}, nil
		})

	svc := automation.NewService(mockQuerier, providerhttp.New())
	ext := types.OverrideExtraction{
		ServiceID:       serviceID,
		ProviderID:      providerID,
		PricingAmount:   types.NewMoney(15),
		Currency:        "USD",
		FulfillmentMode: "provider_order",
	}

	po, err := svc.CreateProviderOrder(context.Background(), orderID, itemID, ext, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "prov-99", po.Payload.ProviderOrderID)
}

func TestRefill_RequiresExistingProviderOrderID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	providerOrderID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetProviderOrderForUpdate(gomock.Any(), providerOrderID).
		Return(&types.FulfillmentProviderOrder{ID: providerOrderID}, nil)

	svc := automation.NewService(mockQuerier, providerhttp.New())
	_, err := svc.Refill(context.Background(), providerOrderID, types.NewMoney(5), "USD")
	require.Error(t, err)
}

func TestExecuteScheduledReplay_FencesAgainstDoubleExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	providerID := uuid.New()
	providerOrderID := uuid.New()
	entryID := uuid.New()

	po := &types.FulfillmentProviderOrder{
		ID:         providerOrderID,
		ProviderID: providerID,
		Payload: types.ProviderOrderPayload{
			ScheduledReplays: []types.ScheduledReplayEntry{
				{ID: entryID, Status: types.ScheduledReplayScheduled, ScheduledFor: time.Now().Add(-time.Minute)},
			},
		},
	}

	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetProviderOrderForUpdate(gomock.Any(), providerOrderID).Return(po, nil)
	mockQuerier.EXPECT().GetProvider(gomock.Any(), providerID).Return(newProvider(t, providerID, srv.URL), nil)
	mockQuerier.EXPECT().UpdateProviderOrderPayload(gomock.Any(), providerOrderID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, payload types.ProviderOrderPayload) error {
			assert.Equal(t, types.ScheduledReplayExecuted, payload.ScheduledReplays[0].Status)
			assert.NotNil(t, payload.ScheduledReplays[0].ExecutedAt)
			return nil
		})

	svc := automation.NewService(mockQuerier, providerhttp.New())
	_, err := svc.ExecuteScheduledReplay(context.Background(), providerOrderID, entryID, map[string]any{})
	require.NoError(t, err)
}

func TestEvaluateGuardrail_Classification(t *testing.T) {
	g := types.Guardrails{MinimumMarginPercent: 10, WarningMarginPercent: 20, MinimumMarginAbsolute: 1}

	fail := automation.EvaluateGuardrail(types.NewMoney(100), types.NewMoney(95), g)
	assert.Equal(t, types.GuardrailFail, fail.Classification)

	warn := automation.EvaluateGuardrail(types.NewMoney(100), types.NewMoney(85), g)
	assert.Equal(t, types.GuardrailWarn, warn.Classification)

	pass := automation.EvaluateGuardrail(types.NewMoney(100), types.NewMoney(50), g)
	assert.Equal(t, types.GuardrailPass, pass.Classification)

	idle := automation.EvaluateGuardrail(types.NewMoney(0), types.NewMoney(0), g)
	assert.Equal(t, types.GuardrailIdle, idle.Classification)
}

func TestSnapshot_AggregatesAcrossProviderOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serviceID := uuid.New()
	mockQuerier := dbmock.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().ListProviderOrders(gomock.Any()).Return([]types.FulfillmentProviderOrder{
		{
			ServiceID: serviceID,
			Payload: types.ProviderOrderPayload{
				Replays:    []types.ReplayEntry{{Status: types.ReplayStatusExecuted}},
				Guardrails: &types.GuardrailSnapshot{Classification: types.GuardrailWarn},
				ServiceRules: []types.RuleMetadata{{ID: "rule-1", Label: "storefront override"}},
			},
		},
	}, nil)

	svc := automation.NewService(mockQuerier, nil)
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalOrders)
	assert.Equal(t, 1, snap.Replays.Executed)
	assert.Equal(t, 1, snap.Guardrails.Warn)
	assert.Equal(t, 1, snap.GuardrailHitsByService[serviceID.String()])
	assert.Equal(t, 1, snap.RuleOverridesByService[serviceID.String()].RuleFrequency["rule-1"])
}
