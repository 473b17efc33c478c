// Package ledger persists reservation records: one row per payment
// reservation, keyed by the provider-issued reservation id, with the
// provider order id attached once a charge is created.
package ledger

import (
	"context"
	"time"

	dErrors "enspass/pkg/domain-errors"
)

// Reservation is the unit of persisted state. Records are created by the
// reserve flow, updated exactly once by the purchase flow, and read-only
// thereafter. There is no deletion path.
type Reservation struct {
	ReservationID string    `json:"reservationId"`
	OrderID       string    `json:"orderId,omitempty"`
	ReferenceID   string    `json:"referenceId"`
	Domain        string    `json:"domain"`
	Buyer         string    `json:"buyer"`
	CreatedAt     time.Time `json:"createdAt"`

	// Reserved for multi-step approval tracking. Nothing sets these yet:
	// re-approval after a relay change is an unhandled scenario.
	CommitTxApproved   bool `json:"commitTxApproved"`
	PurchaseTxApproved bool `json:"purchaseTxApproved"`
}

var (
	// ErrNotFound keeps store-specific misses consistent across backends.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "reservation not found")

	// ErrOrderAttached rejects a second order attachment to the same record.
	ErrOrderAttached = dErrors.New(dErrors.CodeConflict, "reservation already has an order attached")
)

// Store is interface-driven so the reconciler stays testable and the backing
// store (memory, PostgreSQL) is an implementation choice.
type Store interface {
	Save(ctx context.Context, r Reservation) error
	FindByReservationID(ctx context.Context, reservationID string) (Reservation, error)
	FindByOrderID(ctx context.Context, orderID string) (Reservation, error)
	AttachOrder(ctx context.Context, reservationID, orderID string) error
}
