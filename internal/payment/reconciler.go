// Package payment reconciles this service's view of a purchase with the
// payment provider's. It owns reference id construction, reservation and
// charge creation, and the paid-in-full check the approval flow depends on.
package payment

import (
	"context"
	"log/slog"
	"strings"

	"enspass/internal/payment/ledger"
	"enspass/internal/platform/config"
	"enspass/internal/wyre"
	dErrors "enspass/pkg/domain-errors"
	"enspass/pkg/requestcontext"
)

// ReservationResult is what the reserve flow hands back to the buyer: the
// provider reservation id to quote in the follow-up charge, and the hosted
// checkout URL as a fallback payment path.
type ReservationResult struct {
	ReservationID string `json:"reservationId"`
	URL           string `json:"url"`
	ReferenceID   string `json:"referenceId"`
}

// PaymentIDs names the reservation a charge settles.
type PaymentIDs struct {
	ReservationID string `json:"reservationId"`
	ReferenceID   string `json:"referenceId"`
}

// PaymentDetails carries the card and amount for a charge.
type PaymentDetails struct {
	Amount    string                `json:"amount"`
	DebitCard wyre.DebitCardDetails `json:"debitCard"`
}

// UserDetails identifies the cardholder to the provider.
type UserDetails struct {
	GivenName  string       `json:"givenName"`
	FamilyName string       `json:"familyName"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Address    wyre.Address `json:"address"`
}

// ChargeResult reports the provider order created for a charge.
type ChargeResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Reconciler drives the payment lifecycle against the provider and records
// the outcome in the reservation ledger.
type Reconciler struct {
	provider wyre.Client
	store    ledger.Store
	cfg      config.WyreConfig
	logger   *slog.Logger
}

// NewReconciler wires a reconciler from its dependencies.
func NewReconciler(provider wyre.Client, store ledger.Store, cfg config.WyreConfig, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateReservation opens a provider-side order reservation for one domain
// purchase and persists the record. The order shape is fixed: one unit of
// USD-to-ETH via debit card, destined for the configured sponsor wallet.
// Nothing is persisted if the provider declines.
func (r *Reconciler) CreateReservation(ctx context.Context, buyer, domain string) (*ReservationResult, error) {
	now := requestcontext.Now(ctx)
	referenceID := BuildReferenceID(buyer, domain, now)

	resp, err := r.provider.ReserveOrder(ctx, &wyre.OrderReservationRequest{
		Dest:              r.cfg.PaymentDestination,
		Amount:            1,
		ReferenceID:       referenceID,
		DestCurrency:      wyre.DestCurrency,
		PaymentMethod:     wyre.PaymentMethod,
		SourceCurrency:    wyre.SourceCurrency,
		ReferrerAccountID: r.cfg.ReferrerAccountID,
		LockFields:        []string{},
	})
	if err != nil {
		return nil, err
	}

	rec := ledger.Reservation{
		ReservationID: resp.Reservation,
		ReferenceID:   referenceID,
		Domain:        domain,
		Buyer:         buyer,
		CreatedAt:     now,
	}
	if err := r.store.Save(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cannot persist reservation")
	}

	r.logger.InfoContext(ctx, "reservation created",
		"reservationId", resp.Reservation,
		"domain", domain,
		"buyer", buyer,
	)
	return &ReservationResult{
		ReservationID: resp.Reservation,
		URL:           resp.URL,
		ReferenceID:   referenceID,
	}, nil
}

// CreatePayment charges the buyer's card against an existing reservation.
// The caller-supplied reference id must equal the one recorded at reserve
// time; a mismatch is rejected before any provider call. The resulting order
// id is attached to the ledger record only after the charge succeeds.
func (r *Reconciler) CreatePayment(ctx context.Context, ids PaymentIDs, details PaymentDetails, user UserDetails) (*ChargeResult, error) {
	rec, err := r.store.FindByReservationID(ctx, ids.ReservationID)
	if err != nil {
		return nil, err
	}
	if rec.ReferenceID != ids.ReferenceID {
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"reference id %s does not match reservation reference id %s",
			ids.ReferenceID, rec.ReferenceID)
	}

	resp, err := r.provider.ChargeCard(ctx, &wyre.PaymentRequest{
		Dest:              r.cfg.PaymentDestination,
		ReferrerAccountID: r.cfg.ReferrerAccountID,
		SourceCurrency:    wyre.SourceCurrency,
		DestCurrency:      wyre.DestCurrency,
		Amount:            details.Amount,
		DebitCard:         details.DebitCard,
		ReferenceID:       ids.ReferenceID,
		ReservationID:     ids.ReservationID,
		Address:           user.Address,
		GivenName:         user.GivenName,
		FamilyName:        user.FamilyName,
		Email:             user.Email,
		Phone:             user.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := r.store.AttachOrder(ctx, ids.ReservationID, resp.ID); err != nil {
		// The charge went through but the record is stale. Surface it: the
		// order exists provider-side and can be reconciled by hand.
		r.logger.ErrorContext(ctx, "charge succeeded but order attachment failed",
			"reservationId", ids.ReservationID,
			"orderId", resp.ID,
			"error", err,
		)
		return nil, err
	}

	r.logger.InfoContext(ctx, "payment created",
		"reservationId", ids.ReservationID,
		"orderId", resp.ID,
		"status", resp.Status,
	)
	return &ChargeResult{OrderID: resp.ID, Status: resp.Status}, nil
}

// VerifyPayment reports whether an order fully pays for the given domain on
// behalf of the given buyer. Three conditions must hold: the caller's
// reference id was issued for this buyer and domain, the provider reports the
// order COMPLETE, and the ledger record behind the order carries the exact
// reference id. That last compare is byte equality: the id is generated by
// this service, so the caller must echo it back unaltered. Any lookup failure
// degrades to unpaid rather than erroring; the approval flow folds this into
// its rejection reason.
func (r *Reconciler) VerifyPayment(ctx context.Context, orderID, referenceID, domain, buyer string) bool {
	if !MatchesReference(referenceID, buyer, domain) {
		r.logger.WarnContext(ctx, "reference id not issued for buyer and domain",
			"orderId", orderID,
			"referenceId", referenceID,
		)
		return false
	}

	order, err := r.provider.GetOrder(ctx, orderID)
	if err != nil {
		r.logger.WarnContext(ctx, "order status lookup failed", "orderId", orderID, "error", err)
		return false
	}
	if !strings.EqualFold(order.Status, wyre.OrderStatusComplete) {
		r.logger.InfoContext(ctx, "order not complete", "orderId", orderID, "status", order.Status)
		return false
	}

	rec, err := r.store.FindByOrderID(ctx, orderID)
	if err != nil {
		r.logger.WarnContext(ctx, "no reservation recorded for order", "orderId", orderID, "error", err)
		return false
	}
	if rec.ReferenceID != referenceID {
		r.logger.WarnContext(ctx, "reference id does not match recorded reservation",
			"orderId", orderID,
			"referenceId", referenceID,
		)
		return false
	}
	return true
}
