package audit

import (
	"context"
	"log/slog"
)

// Worker drains audit events from a channel into a store off the request
// path. Append failures are logged and the affected event dropped; losing
// one audit record must not stall the drain loop behind it.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"action", event.Action,
					"buyer", event.Buyer,
					"error", err,
				)
			}
		}
	}
}
