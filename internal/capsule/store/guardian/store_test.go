package guardian

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"timecapsule/internal/capsule/models"
	"timecapsule/internal/platform/sqldb"
	id "timecapsule/pkg/domain"
)

// Registry is the contract shared by every guardian store implementation.
type Registry interface {
	Add(ctx context.Context, owner id.IdentityKey, address string) (models.AddStatus, error)
	ListByOwner(ctx context.Context, owner id.IdentityKey) ([]string, error)
	IsGuardianOf(ctx context.Context, owner id.IdentityKey, candidate string) (bool, error)
}

var (
	_ Registry = (*InMemoryStore)(nil)
	_ Registry = (*SQLStore)(nil)
	_ Registry = (*RedisStore)(nil)
)

type RegistrySuite struct {
	suite.Suite
	newRegistry func(t *testing.T) Registry
	registry    Registry
	ctx         context.Context
}

func (s *RegistrySuite) SetupTest() {
	s.registry = s.newRegistry(s.T())
	s.ctx = context.Background()
}

func TestInMemoryRegistrySuite(t *testing.T) {
	suite.Run(t, &RegistrySuite{newRegistry: func(*testing.T) Registry { return NewInMemoryStore() }})
}

func TestSQLiteRegistrySuite(t *testing.T) {
	suite.Run(t, &RegistrySuite{newRegistry: func(t *testing.T) Registry {
		db, err := sqldb.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "guardians.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return NewSQLStore(db)
	}})
}

func TestSQLStore_PositionCollisionIsConflict(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, filepath.Join(t.TempDir(), "guardians.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Another writer claims the computed position just before our insert lands.
	_, err = db.ExecContext(ctx, `CREATE TRIGGER claim_position BEFORE INSERT ON guardians
WHEN NEW.guardian_address = 'late'
BEGIN
    INSERT INTO guardians (owner_id, position, guardian_address) VALUES (NEW.owner_id, NEW.position, 'early');
END`)
	require.NoError(t, err)

	store := NewSQLStore(db)
	owner := id.NewIdentityKey()
	_, err = store.Add(ctx, owner, "late")
	require.ErrorIs(t, err, ErrConflict)

	guardians, err := store.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, guardians, "the failed transaction rolls back the competing row too")
}

func (s *RegistrySuite) TestAddIsIdempotent() {
	owner := id.NewIdentityKey()

	status, err := s.registry.Add(s.ctx, owner, "guardian-a")
	s.Require().NoError(err)
	s.Equal(models.AddStatusAdded, status)

	status, err = s.registry.Add(s.ctx, owner, "guardian-a")
	s.Require().NoError(err)
	s.Equal(models.AddStatusAlreadyExists, status)

	list, err := s.registry.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Equal([]string{"guardian-a"}, list)
}

func (s *RegistrySuite) TestListPreservesRegistrationOrder() {
	owner := id.NewIdentityKey()
	for _, g := range []string{"zeta", "alpha", "mid", "alpha"} {
		_, err := s.registry.Add(s.ctx, owner, g)
		s.Require().NoError(err)
	}

	list, err := s.registry.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Equal([]string{"zeta", "alpha", "mid"}, list)
}

func (s *RegistrySuite) TestListUnknownOwnerIsEmpty() {
	list, err := s.registry.ListByOwner(s.ctx, id.NewIdentityKey())
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *RegistrySuite) TestIsGuardianOf() {
	owner := id.NewIdentityKey()
	_, err := s.registry.Add(s.ctx, owner, "guardian-a")
	s.Require().NoError(err)

	ok, err := s.registry.IsGuardianOf(s.ctx, owner, "guardian-a")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.registry.IsGuardianOf(s.ctx, owner, "guardian-b")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.registry.IsGuardianOf(s.ctx, id.NewIdentityKey(), "guardian-a")
	s.Require().NoError(err)
	s.False(ok, "membership is scoped to the registering owner")
}

func (s *RegistrySuite) TestAddressesAreStoredVerbatim() {
	owner := id.NewIdentityKey()
	_, err := s.registry.Add(s.ctx, owner, "Guardian-A")
	s.Require().NoError(err)

	ok, err := s.registry.IsGuardianOf(s.ctx, owner, "guardian-a")
	s.Require().NoError(err)
	s.False(ok, "comparison is exact")
}

func (s *RegistrySuite) TestConcurrentDuplicateAddsRegisterOnce() {
	owner := id.NewIdentityKey()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.registry.Add(s.ctx, owner, "same")
			if err != nil {
				return
			}
			if status == models.AddStatusAdded {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, added)
	list, err := s.registry.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Len(list, 1)
}
