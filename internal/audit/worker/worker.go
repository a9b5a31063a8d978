package worker

import (
	"context"
	"log/slog"

	"clubsphere/internal/audit"
)

// Worker drains the audit inbox into the store and the ops stream. Failures
// are logged and skipped; audit delivery is best-effort and must never wedge
// the inbox.
type Worker struct {
	store     audit.Store
	publisher audit.Publisher
	inbox     <-chan audit.Event
	logger    *slog.Logger
}

func New(store audit.Store, publisher audit.Publisher, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, publisher: publisher, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if w.store != nil {
				if err := w.store.Append(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit store append failed",
						"error", err,
						"event_type", event.Type,
					)
				}
			}
			if w.publisher != nil {
				if err := w.publisher.Publish(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit publish failed",
						"error", err,
						"event_type", event.Type,
					)
				}
			}
		}
	}
}
