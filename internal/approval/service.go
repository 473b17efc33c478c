// Package approval decides whether a sponsored registration goes ahead. It
// fronts the payment reconciler for the reserve and purchase steps and issues
// the relay approval signature once all checks pass.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"enspass/internal/approval/metrics"
	"enspass/internal/ens"
	"enspass/internal/payment"
	"enspass/internal/relay"
	dErrors "enspass/pkg/domain-errors"
	"enspass/pkg/platform/audit"
)

var tracer = otel.Tracer("enspass/internal/approval")

// RelayChecker validates the relay request against the registrar contract.
type RelayChecker interface {
	Verify(ctx context.Context, expectedDomain string, req *relay.RelayRequest) relay.Result
}

// Payments is the reconciler surface this service orchestrates.
type Payments interface {
	CreateReservation(ctx context.Context, buyer, domain string) (*payment.ReservationResult, error)
	CreatePayment(ctx context.Context, ids payment.PaymentIDs, details payment.PaymentDetails, user payment.UserDetails) (*payment.ChargeResult, error)
	VerifyPayment(ctx context.Context, orderID, referenceID, domain, buyer string) bool
}

// RequestSigner issues the approval signature over a relay request.
type RequestSigner interface {
	Sign(ctx context.Context, req *relay.RelayRequest) (ethtypes.HexBytes0xPrefix, error)
}

// ReserveRequest opens a payment reservation for one domain purchase.
type ReserveRequest struct {
	Buyer  string `json:"buyer"`
	Domain string `json:"domain"`
}

// PurchaseRequest charges the buyer's card against a prior reservation.
type PurchaseRequest struct {
	IDs     payment.PaymentIDs     `json:"paymentIds"`
	Details payment.PaymentDetails `json:"paymentDetails"`
	User    payment.UserDetails    `json:"userDetails"`
}

// ApproveRequest asks for an approval signature over a relay request. The
// paying party is not a field of its own: the payment check binds to the
// relay request's sender, so a completed order only ever approves a
// transaction sent from the account that paid.
type ApproveRequest struct {
	Domain       string             `json:"domain"`
	OrderID      string             `json:"orderId"`
	ReferenceID  string             `json:"referenceId"`
	RelayRequest relay.RelayRequest `json:"relayRequest"`
}

// ApproveResponse is the outcome of an approval evaluation. A rejected
// request carries the combined check results in Reason and no signature.
type ApproveResponse struct {
	Approved  bool                      `json:"approved"`
	Signature ethtypes.HexBytes0xPrefix `json:"approvalData,omitempty"`
	Reason    string                    `json:"reason,omitempty"`
}

// Service orchestrates the reserve, purchase and approve flows.
type Service struct {
	oracle   ens.Oracle
	relay    RelayChecker
	payments Payments
	signer   RequestSigner
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService wires the approval service from its dependencies.
func NewService(
	oracle ens.Oracle,
	relayChecker RelayChecker,
	payments Payments,
	signer RequestSigner,
	auditor *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		oracle:   oracle,
		relay:    relayChecker,
		payments: payments,
		signer:   signer,
		audit:    auditor,
		metrics:  m,
		logger:   logger,
	}
}

// Reserve opens a provider-side payment reservation for the buyer and domain.
// Money is never reserved for a name somebody already owns.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*payment.ReservationResult, error) {
	ctx, span := tracer.Start(ctx, "approval.Reserve", trace.WithAttributes(
		attribute.String("domain", req.Domain),
	))
	defer span.End()

	registered, err := s.oracle.RecordExists(ctx, req.Domain)
	if err != nil {
		s.emit(ctx, audit.Event{
			Buyer:   req.Buyer,
			Domain:  req.Domain,
			Action:  audit.ActionReserve,
			Outcome: audit.OutcomeFailed,
			Reason:  err.Error(),
		})
		return nil, err
	}
	if registered {
		s.emit(ctx, audit.Event{
			Buyer:   req.Buyer,
			Domain:  req.Domain,
			Action:  audit.ActionReserve,
			Outcome: audit.OutcomeRejected,
			Reason:  "domain already registered",
		})
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "domain %s is already registered", req.Domain)
	}

	result, err := s.payments.CreateReservation(ctx, req.Buyer, req.Domain)
	s.emit(ctx, audit.Event{
		Buyer:   req.Buyer,
		Domain:  req.Domain,
		Action:  audit.ActionReserve,
		Outcome: outcomeOf(err),
	})
	return result, err
}

// Purchase charges the buyer's card against a prior reservation.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*payment.ChargeResult, error) {
	ctx, span := tracer.Start(ctx, "approval.Purchase", trace.WithAttributes(
		attribute.String("reservationId", req.IDs.ReservationID),
	))
	defer span.End()

	result, err := s.payments.CreatePayment(ctx, req.IDs, req.Details, req.User)
	buyer, domain := payment.SplitReferenceID(req.IDs.ReferenceID)
	s.emit(ctx, audit.Event{
		Buyer:   buyer,
		Domain:  domain,
		Action:  audit.ActionPurchase,
		Outcome: outcomeOf(err),
	})
	return result, err
}

// Approve evaluates the three admission checks and signs the relay request
// if all of them pass. The checks are independent and all of them always
// run, so a rejection names every failing condition at once.
func (s *Service) Approve(ctx context.Context, req ApproveRequest) (*ApproveResponse, error) {
	ctx, span := tracer.Start(ctx, "approval.Approve", trace.WithAttributes(
		attribute.String("domain", req.Domain),
		attribute.String("orderId", req.OrderID),
	))
	defer span.End()

	started := time.Now()
	defer func() { s.metrics.ObserveApproveLatency(time.Since(started)) }()

	buyer := req.RelayRequest.Request.From

	var (
		alreadyRegistered bool
		relayResult       relay.Result
		paidFor           bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		defer func() { s.metrics.ObserveCheckLatency("registered", time.Since(t)) }()
		var err error
		alreadyRegistered, err = s.oracle.RecordExists(gctx, req.Domain)
		return err
	})
	g.Go(func() error {
		t := time.Now()
		defer func() { s.metrics.ObserveCheckLatency("relay", time.Since(t)) }()
		relayResult = s.relay.Verify(gctx, req.Domain, &req.RelayRequest)
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		defer func() { s.metrics.ObserveCheckLatency("payment", time.Since(t)) }()
		paidFor = s.payments.VerifyPayment(gctx, req.OrderID, req.ReferenceID, req.Domain, buyer)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrementOutcome("error")
		s.emit(ctx, audit.Event{
			Buyer:   buyer,
			Domain:  req.Domain,
			Action:  audit.ActionApprove,
			Outcome: audit.OutcomeFailed,
			Reason:  err.Error(),
		})
		return nil, err
	}

	if alreadyRegistered || !relayResult.Valid || !paidFor {
		reason := fmt.Sprintf("isAlreadyRegistered: %t isValidRequest: %t isPaidFor: %t",
			alreadyRegistered, relayResult.Valid, paidFor)
		s.logger.InfoContext(ctx, "approval rejected", "domain", req.Domain, "reason", reason)
		s.metrics.IncrementOutcome("rejected")
		s.emit(ctx, audit.Event{
			Buyer:   buyer,
			Domain:  req.Domain,
			Action:  audit.ActionApprove,
			Outcome: audit.OutcomeRejected,
			Reason:  reason,
		})
		return &ApproveResponse{Approved: false, Reason: reason}, nil
	}

	signature, err := s.signer.Sign(ctx, &req.RelayRequest)
	if err != nil {
		s.metrics.IncrementOutcome("error")
		return nil, err
	}

	s.logger.InfoContext(ctx, "approval granted",
		"domain", req.Domain,
		"buyer", buyer,
		"commitment", relayResult.Commitment,
	)
	s.metrics.IncrementOutcome("approved")
	s.emit(ctx, audit.Event{
		Buyer:   buyer,
		Domain:  req.Domain,
		Action:  audit.ActionApprove,
		Outcome: audit.OutcomeAccepted,
	})
	return &ApproveResponse{Approved: true, Signature: signature}, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func outcomeOf(err error) string {
	if err != nil {
		return audit.OutcomeFailed
	}
	return audit.OutcomeAccepted
}
