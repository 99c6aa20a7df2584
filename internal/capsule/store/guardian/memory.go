package guardian

import (
	"context"
	"slices"
	"sync"

	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
)

// InMemoryStore keeps each owner's guardians in registration order.
type InMemoryStore struct {
	mu        sync.RWMutex
	guardians map[id.IdentityKey][]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{guardians: make(map[id.IdentityKey][]string)}
}

func (s *InMemoryStore) Add(_ context.Context, owner id.IdentityKey, address string) (models.AddStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.guardians[owner], address) {
		return models.AddStatusAlreadyExists, nil
	}
	s.guardians[owner] = append(s.guardians[owner], address)
	return models.AddStatusAdded, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.IdentityKey) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.guardians[owner]...), nil
}

func (s *InMemoryStore) IsGuardianOf(_ context.Context, owner id.IdentityKey, candidate string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.guardians[owner], candidate), nil
}
