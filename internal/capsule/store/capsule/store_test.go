package capsule

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"timecapsule/internal/capsule/models"
	"timecapsule/internal/platform/sqldb"
	id "timecapsule/pkg/domain"
)

// Store is the contract shared by every capsule store implementation.
type Store interface {
	Create(ctx context.Context, owner id.IdentityKey, capsule models.Capsule) (uint64, error)
	ListByOwner(ctx context.Context, owner id.IdentityKey) ([]models.Capsule, error)
	FindByIndex(ctx context.Context, owner id.IdentityKey, index uint64) (*models.Capsule, error)
	MarkUnlocked(ctx context.Context, owner id.IdentityKey, index uint64) error
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)

type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
	store    Store
	ctx      context.Context
	now      time.Time
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewInMemoryStore() }})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		db, err := sqldb.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "capsules.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return NewSQLStore(db)
	}})
}

func (s *StoreSuite) sealed(payload string, delay time.Duration) models.Capsule {
	return models.Capsule{
		EncryptedPayload: payload,
		CreatedAt:        s.now,
		UnlockTime:       s.now.Add(delay),
	}
}

func (s *StoreSuite) TestCreateAssignsSequentialIndices() {
	owner := id.NewIdentityKey()
	for want := uint64(0); want < 3; want++ {
		index, err := s.store.Create(s.ctx, owner, s.sealed("p", time.Hour))
		s.Require().NoError(err)
		s.Equal(want, index)
	}

	other := id.NewIdentityKey()
	index, err := s.store.Create(s.ctx, other, s.sealed("q", 0))
	s.Require().NoError(err)
	s.Equal(uint64(0), index, "indices are per owner")
}

func (s *StoreSuite) TestListByOwner() {
	s.Run("unknown owner yields empty slice", func() {
		list, err := s.store.ListByOwner(s.ctx, id.NewIdentityKey())
		s.Require().NoError(err)
		s.NotNil(list)
		s.Empty(list)
	})

	s.Run("preserves order and fields", func() {
		owner := id.NewIdentityKey()
		_, err := s.store.Create(s.ctx, owner, s.sealed("first", time.Hour))
		s.Require().NoError(err)
		_, err = s.store.Create(s.ctx, owner, s.sealed("second", 48*time.Hour))
		s.Require().NoError(err)

		list, err := s.store.ListByOwner(s.ctx, owner)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal("first", list[0].EncryptedPayload)
		s.Equal("second", list[1].EncryptedPayload)
		s.Equal(uint64(1), list[1].Index)
		s.True(list[1].UnlockTime.Equal(s.now.Add(48*time.Hour)))
		s.True(list[0].CreatedAt.Equal(s.now))
		s.False(list[0].IsUnlocked)
	})

	s.Run("returns a snapshot", func() {
		owner := id.NewIdentityKey()
		_, err := s.store.Create(s.ctx, owner, s.sealed("x", 0))
		s.Require().NoError(err)

		list, err := s.store.ListByOwner(s.ctx, owner)
		s.Require().NoError(err)
		list[0].IsUnlocked = true

		again, err := s.store.ListByOwner(s.ctx, owner)
		s.Require().NoError(err)
		s.False(again[0].IsUnlocked)
	})
}

func (s *StoreSuite) TestFindByIndex() {
	owner := id.NewIdentityKey()
	_, err := s.store.Create(s.ctx, owner, s.sealed("a", 0))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, owner, s.sealed("b", 0))
	s.Require().NoError(err)

	got, err := s.store.FindByIndex(s.ctx, owner, 1)
	s.Require().NoError(err)
	s.Equal("b", got.EncryptedPayload)
	s.Equal(owner, got.Owner)

	_, err = s.store.FindByIndex(s.ctx, owner, 5)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.store.FindByIndex(s.ctx, id.NewIdentityKey(), 0)
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestMarkUnlockedIsIdempotent() {
	owner := id.NewIdentityKey()
	_, err := s.store.Create(s.ctx, owner, s.sealed("a", 0))
	s.Require().NoError(err)

	s.Require().NoError(s.store.MarkUnlocked(s.ctx, owner, 0))
	s.Require().NoError(s.store.MarkUnlocked(s.ctx, owner, 0))

	got, err := s.store.FindByIndex(s.ctx, owner, 0)
	s.Require().NoError(err)
	s.True(got.IsUnlocked)
	s.Equal(models.StateReleased, got.State())

	s.ErrorIs(s.store.MarkUnlocked(s.ctx, owner, 9), ErrNotFound)
}

func (s *StoreSuite) TestConcurrentCreatesAcrossOwners() {
	const owners, perOwner = 8, 5
	var wg sync.WaitGroup
	keys := make([]id.IdentityKey, owners)
	for i := range keys {
		keys[i] = id.NewIdentityKey()
	}
	for _, owner := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perOwner {
				_, err := s.store.Create(s.ctx, owner, s.sealed("c", 0))
				s.NoError(err)
			}
		}()
	}
	wg.Wait()

	for _, owner := range keys {
		list, err := s.store.ListByOwner(s.ctx, owner)
		s.Require().NoError(err)
		s.Len(list, perOwner)
	}
}

func TestSQLStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "durable.db")
	owner := id.NewIdentityKey()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	db, err := sqldb.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := NewSQLStore(db)
	for range 2 {
		if _, err := store.Create(ctx, owner, models.Capsule{EncryptedPayload: "p", CreatedAt: now, UnlockTime: now}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.MarkUnlocked(ctx, owner, 1); err != nil {
		t.Fatalf("mark unlocked: %v", err)
	}
	_ = db.Close()

	db, err = sqldb.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer db.Close()
	store = NewSQLStore(db)

	list, err := store.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].IsUnlocked || !list[1].IsUnlocked {
		t.Fatalf("unexpected state after reopen: %+v", list)
	}
	index, err := store.Create(ctx, owner, models.Capsule{EncryptedPayload: "p", CreatedAt: now, UnlockTime: now})
	if err != nil {
		t.Fatalf("create after reopen: %v", err)
	}
	if index != 2 {
		t.Fatalf("expected index 2 after reopen, got %d", index)
	}
}
