package handler

import (
	"strings"

	"enspass/internal/approval"
	dErrors "enspass/pkg/domain-errors"
)

// ReserveRequest is the HTTP request body for POST /reserve.
type ReserveRequest struct {
	Buyer  string `json:"buyer"`
	Domain string `json:"domain"`
}

// Validate checks the reserve request fields.
func (r *ReserveRequest) Validate() error {
	r.Buyer = strings.TrimSpace(r.Buyer)
	r.Domain = strings.TrimSpace(r.Domain)
	if r.Buyer == "" {
		return dErrors.New(dErrors.CodeBadRequest, "buyer is required")
	}
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeBadRequest, "domain is required")
	}
	return nil
}

// PurchaseRequest is the HTTP request body for POST /purchase. The card and
// user details pass through to the payment provider unchanged.
type PurchaseRequest approval.PurchaseRequest

// Validate checks the identifiers the service needs to correlate the charge.
func (r *PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.IDs.ReservationID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "paymentIds.reservationId is required")
	}
	if strings.TrimSpace(r.IDs.ReferenceID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "paymentIds.referenceId is required")
	}
	if strings.TrimSpace(r.Details.Amount) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "paymentDetails.amount is required")
	}
	return nil
}

// ApproveRequest is the HTTP request body for POST /approve.
type ApproveRequest approval.ApproveRequest

// Validate checks the approval request fields. The relay request's calldata
// is validated by the approval checks, not here, but the sender must be
// present: the payment check is keyed on it.
func (r *ApproveRequest) Validate() error {
	r.Domain = strings.TrimSpace(r.Domain)
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeBadRequest, "domain is required")
	}
	if strings.TrimSpace(r.OrderID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "orderId is required")
	}
	if strings.TrimSpace(r.ReferenceID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "referenceId is required")
	}
	if strings.TrimSpace(r.RelayRequest.Request.From) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "relayRequest.request.from is required")
	}
	return nil
}
