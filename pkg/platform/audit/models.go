// Package audit records who asked this service to do what and how it
// answered. Events flow through a publisher into a store, with an optional
// Kafka sink for downstream consumers.
package audit

import (
	"context"
	"time"
)

// Actions recorded by the approval service.
const (
	ActionReserve  = "reserve"
	ActionPurchase = "purchase"
	ActionApprove  = "approve"
)

// Outcomes of an audited action.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
	Buyer     string    `json:"buyer"`
	Domain    string    `json:"domain"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
}

// Store is an append-only event sink with buyer-scoped reads.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByBuyer(ctx context.Context, buyer string) ([]Event, error)
}
