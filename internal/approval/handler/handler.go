package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"enspass/internal/approval"
	"enspass/internal/payment"
	"enspass/internal/wyre"
	"enspass/pkg/platform/httputil"
	"enspass/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

// Service defines the approval operations the handler exposes.
type Service interface {
	Reserve(ctx context.Context, req approval.ReserveRequest) (*payment.ReservationResult, error)
	Purchase(ctx context.Context, req approval.PurchaseRequest) (*payment.ChargeResult, error)
	Approve(ctx context.Context, req approval.ApproveRequest) (*approval.ApproveResponse, error)
}

// Handler wires the approval endpoints to the approval service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an approval handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the approval endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reserve", h.HandleReserve)
	r.Post("/purchase", h.HandlePurchase)
	r.Post("/approve", h.HandleApprove)
}

// HandleReserve handles POST /reserve requests.
func (h *Handler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[ReserveRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Reserve(ctx, approval.ReserveRequest{
		Buyer:  req.Buyer,
		Domain: req.Domain,
	})
	if err != nil {
		h.writeError(w, r, "reserve failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandlePurchase handles POST /purchase requests.
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[PurchaseRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Purchase(ctx, approval.PurchaseRequest(req))
	if err != nil {
		h.writeError(w, r, "purchase failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleApprove handles POST /approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.DecodeJSON[ApproveRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Approve(ctx, approval.ApproveRequest(req))
	if err != nil {
		h.writeError(w, r, "approval evaluation failed", err)
		return
	}

	h.logger.InfoContext(ctx, "approval evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"domain", req.Domain,
		"approved", result.Approved,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	status := http.StatusOK
	if !result.Approved {
		// A rejection is a client error; the reason names every failing check.
		status = http.StatusBadRequest
	}
	httputil.WriteJSON(w, status, result)
}

// writeError maps service errors to responses. Payment provider rejections
// pass through verbatim with the provider's own status so buyers see the
// provider's card decline reasons.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if pe, ok := wyre.AsProviderError(err); ok {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"provider_status", pe.StatusCode,
		)
		httputil.WriteRawError(w, pe.StatusCode, pe.Payload)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
