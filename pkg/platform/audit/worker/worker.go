package worker

import (
	"context"
	"log/slog"

	audit "timecapsule/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them.
// It returns when the context is cancelled or the inbox is closed, so closing
// the inbox drains every event that was already queued.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			// A failing sink must not stop the pipeline; the event is logged and dropped.
			if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"owner_id", event.OwnerID.String(),
					"error", err,
				)
			}
		}
	}
}
