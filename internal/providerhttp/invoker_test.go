package providerhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/providerhttp"
	"github.com/smplat/fulfillment/internal/types"
)

func init() {
	logger.InitLogger("test")
}

func TestInvoke_SuccessExtractsProviderOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "item-1", body["itemId"])
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"order_id": "prov-123"},
		})
	}))
	defer srv.Close()

	endpoint := types.Endpoint{
		Method:  "POST",
		URL:     srv.URL + "/{{ order.order_number }}",
		Payload: map[string]any{"itemId": "{{ item.id }}"},
		Response: map[string]any{"provider_order_id_path": "data.order_id"},
	}
	ctx := map[string]any{
		"order": map[string]any{"order_number": "SM000001"},
		"item":  map[string]any{"id": "item-1"},
	}

	inv := providerhttp.New()
	result, err := inv.Invoke(context.Background(), endpoint, ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "prov-123", result.ProviderOrderID)
}

func TestInvoke_FailureStatusRaisesProviderEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid service id"}`))
	}))
	defer srv.Close()

	endpoint := types.Endpoint{Method: "POST", URL: srv.URL}
	inv := providerhttp.New()
	_, err := inv.Invoke(context.Background(), endpoint, map[string]any{}, "order")
	require.Error(t, err)
}

func TestInvoke_CustomSuccessStatusesHonored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	endpoint := types.Endpoint{Method: "POST", URL: srv.URL, SuccessStatuses: []int{202}}
	inv := providerhttp.New()
	result, err := inv.Invoke(context.Background(), endpoint, map[string]any{}, "order")
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, result.StatusCode)
}

func TestInvoke_NonJSONResponseFallsBackToTextPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("plain text response"))
	}))
	defer srv.Close()

	endpoint := types.Endpoint{Method: "GET", URL: srv.URL}
	inv := providerhttp.New()
	result, err := inv.Invoke(context.Background(), endpoint, map[string]any{}, "balance")
	require.NoError(t, err)
	assert.Equal(t, "plain text response", result.TextPreview)
}
