// Package fallback routes audit events to a primary sink and diverts them to
// a local store while the primary is failing.
package fallback

import (
	"context"
	"log/slog"

	id "timecapsule/pkg/domain"
	audit "timecapsule/pkg/platform/audit"
	"timecapsule/pkg/platform/circuit"
)

// LocalStore is the fallback sink. It must also support reads so that
// events diverted during an outage stay visible.
type LocalStore interface {
	audit.Store
	audit.Lister
}

type Store struct {
	primary audit.Store
	local   LocalStore
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func New(primary audit.Store, local LocalStore, breaker *circuit.Breaker, logger *slog.Logger) *Store {
	return &Store{primary: primary, local: local, breaker: breaker, logger: logger}
}

// Append always tries the primary. While the circuit is open, events are
// also written locally until the primary has recovered.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	err := s.primary.Append(ctx, event)
	if err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.log(ctx, "audit sink circuit opened", err)
		}
		if useFallback {
			return s.local.Append(ctx, event)
		}
		return err
	}

	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.log(ctx, "audit sink circuit closed", nil)
	}
	if !usePrimary {
		return s.local.Append(ctx, event)
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID id.IdentityKey) ([]audit.Event, error) {
	if lister, ok := s.primary.(audit.Lister); ok && !s.breaker.IsOpen() {
		return lister.ListByOwner(ctx, ownerID)
	}
	return s.local.ListByOwner(ctx, ownerID)
}

func (s *Store) log(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	attrs := []any{"breaker", s.breaker.Name()}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	s.logger.WarnContext(ctx, msg, attrs...)
}
