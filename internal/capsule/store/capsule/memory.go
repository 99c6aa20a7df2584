package capsule

import (
	"context"
	"sync"

	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
	"timecapsule/pkg/platform/sentinel"
)

// ErrNotFound is returned when the owner has no capsule at the requested index.
var ErrNotFound = sentinel.ErrNotFound

// ErrConflict is returned when another writer took the next index first.
var ErrConflict = sentinel.ErrConflict

// InMemoryStore keeps each owner's capsules as an append-only slice, so indices
// are stable for the life of the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	capsules map[id.IdentityKey][]models.Capsule
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{capsules: make(map[id.IdentityKey][]models.Capsule)}
}

func (s *InMemoryStore) Create(_ context.Context, owner id.IdentityKey, capsule models.Capsule) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := uint64(len(s.capsules[owner]))
	capsule.Owner = owner
	capsule.Index = index
	s.capsules[owner] = append(s.capsules[owner], capsule)
	return index, nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.IdentityKey) ([]models.Capsule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Capsule{}, s.capsules[owner]...), nil
}

// FindByIndex returns a copy; mutations go through MarkUnlocked.
func (s *InMemoryStore) FindByIndex(_ context.Context, owner id.IdentityKey, index uint64) (*models.Capsule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := s.capsules[owner]
	if index >= uint64(len(owned)) {
		return nil, ErrNotFound
	}
	c := owned[index]
	return &c, nil
}

func (s *InMemoryStore) MarkUnlocked(_ context.Context, owner id.IdentityKey, index uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.capsules[owner]
	if index >= uint64(len(owned)) {
		return ErrNotFound
	}
	owned[index].Release()
	return nil
}
