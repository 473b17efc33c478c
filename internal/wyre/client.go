// Package wyre is the REST client for the Wyre payment processor. Responses
// are deserialized into explicit per-endpoint types and validated before use;
// provider failures surface as structured errors, never panics.
package wyre

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"enspass/internal/platform/config"
	dErrors "enspass/pkg/domain-errors"
)

// Client is the payment provider surface the reconciler depends on.
type Client interface {
	ReserveOrder(ctx context.Context, req *OrderReservationRequest) (*ReservationResponse, error)
	ChargeCard(ctx context.Context, req *PaymentRequest) (*ChargeResponse, error)
	GetOrder(ctx context.Context, orderID string) (*OrderStatus, error)
}

// RESTClient talks to the Wyre v3 API.
type RESTClient struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewRESTClient constructs a client from provider configuration.
func NewRESTClient(cfg config.WyreConfig, logger *slog.Logger) *RESTClient {
	return &RESTClient{
		http: resty.New().
			SetBaseURL(cfg.Host).
			SetAuthToken(cfg.SecretKey).
			SetTimeout(cfg.Timeout),
		logger: logger,
	}
}

// ReserveOrder submits an order reservation.
func (c *RESTClient) ReserveOrder(ctx context.Context, req *OrderReservationRequest) (*ReservationResponse, error) {
	var out ReservationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/orders/reserve")
	if err := c.checkResponse(ctx, "reserve order", resp, err); err != nil {
		return nil, err
	}
	if out.Reservation == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "provider reservation response missing reservation id")
	}
	return &out, nil
}

// ChargeCard submits a debit card charge against an existing reservation.
func (c *RESTClient) ChargeCard(ctx context.Context, req *PaymentRequest) (*ChargeResponse, error) {
	var out ChargeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/debitcard/process/partner")
	if err := c.checkResponse(ctx, "charge card", resp, err); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "provider charge response missing order id")
	}
	return &out, nil
}

// GetOrder looks up the current status of an order.
func (c *RESTClient) GetOrder(ctx context.Context, orderID string) (*OrderStatus, error) {
	var out OrderStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/orders/%s", orderID))
	if err := c.checkResponse(ctx, "get order", resp, err); err != nil {
		return nil, err
	}
	if out.Status == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "provider order response missing status")
	}
	return &out, nil
}

func (c *RESTClient) checkResponse(ctx context.Context, op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.ErrorContext(ctx, "payment provider unreachable", "op", op, "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "payment provider unreachable")
	}
	if resp.IsError() {
		c.logger.WarnContext(ctx, "payment provider rejected request",
			"op", op,
			"status", resp.StatusCode(),
		)
		// Copy the body: resty may reuse its buffer once the response is released.
		payload := json.RawMessage(append([]byte(nil), resp.Body()...))
		return &ProviderError{StatusCode: resp.StatusCode(), Payload: payload}
	}
	return nil
}
