package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"enspass/internal/approval"
	"enspass/internal/approval/handler"
	"enspass/internal/approval/handler/mocks"
	"enspass/internal/payment"
	"enspass/internal/wyre"
	dErrors "enspass/pkg/domain-errors"
)

func newTestRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)

	r := chi.NewRouter()
	handler.New(service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return service, r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleReserve(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Reserve(gomock.Any(), approval.ReserveRequest{Buyer: "0xbuyer", Domain: "mydomain"}).
		Return(&payment.ReservationResult{
			ReservationID: "RES123",
			URL:           "https://pay.example/RES123",
			ReferenceID:   "0xbuyer:mydomain:1700000000000",
		}, nil)

	rec := doJSON(t, router, http.MethodPost, "/reserve", `{"buyer":"0xbuyer","domain":"mydomain"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"reservationId": "RES123",
		"url": "https://pay.example/RES123",
		"referenceId": "0xbuyer:mydomain:1700000000000"
	}`, rec.Body.String())
}

func TestHandleReserveValidation(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing buyer", `{"domain":"mydomain"}`},
		{"missing domain", `{"buyer":"0xbuyer"}`},
		{"malformed json", `{"buyer":`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/reserve", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlePurchase(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Purchase(gomock.Any(), gomock.Any()).
		Return(&payment.ChargeResult{OrderID: "WO_1", Status: "RUNNING_CHECKS"}, nil)

	rec := doJSON(t, router, http.MethodPost, "/purchase", `{
		"paymentIds": {"reservationId": "RES123", "referenceId": "0xbuyer:mydomain:1700000000000"},
		"paymentDetails": {"amount": "25.00", "debitCard": {"number": "4111111111111111"}},
		"userDetails": {"givenName": "Ada", "email": "ada@example.com"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orderId":"WO_1","status":"RUNNING_CHECKS"}`, rec.Body.String())
}

func TestHandlePurchaseProviderRejectionPassesThrough(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Purchase(gomock.Any(), gomock.Any()).
		Return(nil, &wyre.ProviderError{
			StatusCode: http.StatusBadRequest,
			Payload:    []byte(`{"errorCode":"debitCard.declined","message":"Card declined"}`),
		})

	rec := doJSON(t, router, http.MethodPost, "/purchase", `{
		"paymentIds": {"reservationId": "RES123", "referenceId": "x:y:1"},
		"paymentDetails": {"amount": "25.00"}
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"errorCode":"debitCard.declined","message":"Card declined"}}`, rec.Body.String())
}

func TestHandlePurchaseReferenceConflict(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Purchase(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "reference id a does not match reservation reference id b"))

	rec := doJSON(t, router, http.MethodPost, "/purchase", `{
		"paymentIds": {"reservationId": "RES123", "referenceId": "x:y:1"},
		"paymentDetails": {"amount": "25.00"}
	}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not match")
}

func TestHandleApprove(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Approve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req approval.ApproveRequest) (*approval.ApproveResponse, error) {
			assert.Equal(t, "mydomain", req.Domain)
			assert.Equal(t, "WO_1", req.OrderID)
			return &approval.ApproveResponse{
				Approved:  true,
				Signature: make([]byte, 65),
			}, nil
		})

	rec := doJSON(t, router, http.MethodPost, "/approve", `{
		"domain": "mydomain",
		"orderId": "WO_1",
		"referenceId": "0xbuyer:mydomain:1700000000000",
		"relayRequest": {"request": {"from": "0xbuyer", "to": "0xregistrar", "data": "0x"}, "relayData": {}}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"approved":true`)
	assert.Contains(t, rec.Body.String(), `"approvalData"`)
}

func TestHandleApproveRejection(t *testing.T) {
	service, router := newTestRouter(t)
	reason := "isAlreadyRegistered: false isValidRequest: true isPaidFor: false"
	service.EXPECT().
		Approve(gomock.Any(), gomock.Any()).
		Return(&approval.ApproveResponse{Approved: false, Reason: reason}, nil)

	rec := doJSON(t, router, http.MethodPost, "/approve", `{
		"domain": "mydomain",
		"orderId": "WO_1",
		"referenceId": "0xbuyer:mydomain:1700000000000",
		"relayRequest": {"request": {"from": "0xbuyer"}}
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"approved":false,"reason":"`+reason+`"}`, rec.Body.String())
}

func TestHandleApproveValidation(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"missing order id",
			`{"domain":"mydomain"}`,
			"orderId is required",
		},
		{
			"missing relay sender",
			`{"domain":"mydomain","orderId":"WO_1","referenceId":"0xbuyer:mydomain:1","relayRequest":{"request":{"to":"0xregistrar"}}}`,
			"relayRequest.request.from is required",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/approve", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestHandleApproveInternalErrorHidesDetails(t *testing.T) {
	service, router := newTestRouter(t)
	service.EXPECT().
		Approve(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "secret infrastructure detail"))

	rec := doJSON(t, router, http.MethodPost, "/approve", `{
		"domain": "mydomain",
		"orderId": "WO_1",
		"referenceId": "0xbuyer:mydomain:1700000000000",
		"relayRequest": {"request": {"from": "0xbuyer"}}
	}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret infrastructure detail")
}
