package audit

import (
	"context"
	"log/slog"

	"enspass/pkg/requestcontext"
)

// Sink receives every published event in addition to the store. A nil sink
// is valid and skipped.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Sink failures
// are logged, not propagated: audit delivery must never fail a request.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	if err := p.store.Append(ctx, base); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, base); err != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", base.Action,
				"error", err,
			)
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, buyer string) ([]Event, error) {
	return p.store.ListByBuyer(ctx, buyer)
}
