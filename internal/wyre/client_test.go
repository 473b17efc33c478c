package wyre

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enspass/internal/platform/config"
	dErrors "enspass/pkg/domain-errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*RESTClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewRESTClient(config.WyreConfig{
		Host:      srv.URL,
		SecretKey: "test-secret",
		Timeout:   5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return client, srv
}

func TestReserveOrder(t *testing.T) {
	var got OrderReservationRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/reserve", r.URL.Path)
		assert.Equal(t, "Bearer test-secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reservation":"RES123","url":"https://pay.example/RES123"}`))
	}))

	resp, err := client.ReserveOrder(context.Background(), &OrderReservationRequest{
		Dest:        "0xdest",
		Amount:      1,
		ReferenceID: "buyer:domain:1700000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "RES123", resp.Reservation)
	assert.Equal(t, "https://pay.example/RES123", resp.URL)
	assert.Equal(t, "buyer:domain:1700000000000", got.ReferenceID)
}

func TestReserveOrderProviderRejection(t *testing.T) {
	providerBody := `{"errorCode":"validation.invalidValue","message":"Invalid dest"}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(providerBody))
	}))

	_, err := client.ReserveOrder(context.Background(), &OrderReservationRequest{})
	require.Error(t, err)

	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.JSONEq(t, providerBody, string(pe.Payload))
}

func TestReserveOrderMissingReservationID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.ReserveOrder(context.Background(), &OrderReservationRequest{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestChargeCard(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/debitcard/process/partner", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"WO_1","status":"RUNNING_CHECKS"}`))
	}))

	resp, err := client.ChargeCard(context.Background(), &PaymentRequest{ReservationID: "RES123"})
	require.NoError(t, err)
	assert.Equal(t, "WO_1", resp.ID)
	assert.Equal(t, "RUNNING_CHECKS", resp.Status)
}

func TestGetOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/WO_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"WO_1","status":"COMPLETE"}`))
	}))

	resp, err := client.GetOrder(context.Background(), "WO_1")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusComplete, resp.Status)
}

func TestClientUnreachableProvider(t *testing.T) {
	client := NewRESTClient(config.WyreConfig{
		Host:      "http://127.0.0.1:1",
		SecretKey: "test-secret",
		Timeout:   time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.GetOrder(context.Background(), "WO_1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
