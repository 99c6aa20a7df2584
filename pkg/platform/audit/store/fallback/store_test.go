package fallback

import (
	"context"
	"errors"
	"testing"

	id "timecapsule/pkg/domain"
	audit "timecapsule/pkg/platform/audit"
	"timecapsule/pkg/platform/audit/store/memory"
	"timecapsule/pkg/platform/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	err      error
	appended int
}

func (s *flakyStore) Append(context.Context, audit.Event) error {
	if s.err != nil {
		return s.err
	}
	s.appended++
	return nil
}

func TestStore_DivertsAfterThreshold(t *testing.T) {
	primary := &flakyStore{err: errors.New("broker down")}
	local := memory.NewInMemoryStore()
	store := New(primary, local, circuit.New("audit", circuit.WithFailureThreshold(2)), nil)

	owner := id.NewIdentityKey()
	ev := audit.Event{OwnerID: owner, Action: string(audit.EventCapsuleCreated)}

	require.Error(t, store.Append(context.Background(), ev))
	require.NoError(t, store.Append(context.Background(), ev), "second failure opens the circuit and diverts")
	require.NoError(t, store.Append(context.Background(), ev))

	events, err := store.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestStore_RecoversAfterSuccesses(t *testing.T) {
	primary := &flakyStore{err: errors.New("broker down")}
	local := memory.NewInMemoryStore()
	breaker := circuit.New("audit", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(2))
	store := New(primary, local, breaker, nil)

	owner := id.NewIdentityKey()
	ev := audit.Event{OwnerID: owner}
	require.NoError(t, store.Append(context.Background(), ev))
	require.True(t, breaker.IsOpen())

	primary.err = nil
	require.NoError(t, store.Append(context.Background(), ev))
	assert.True(t, breaker.IsOpen(), "one success is not enough to close")
	require.NoError(t, store.Append(context.Background(), ev))
	assert.False(t, breaker.IsOpen())

	require.NoError(t, store.Append(context.Background(), ev))
	events, err := local.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, events, 2, "only events written while open are kept locally")
	assert.Equal(t, 3, primary.appended)
}
