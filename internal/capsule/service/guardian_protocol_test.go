package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecapsule/internal/capsule/crypto"
	"timecapsule/internal/capsule/models"
	capsulestore "timecapsule/internal/capsule/store/capsule"
	guardianstore "timecapsule/internal/capsule/store/guardian"
	id "timecapsule/pkg/domain"
	dErrors "timecapsule/pkg/domain-errors"
	"timecapsule/pkg/requestcontext"
	"timecapsule/pkg/testutil"
)

func TestGuardianEmergencyRelease(t *testing.T) {
	enc, err := crypto.NewAESGCM(bytes.Repeat([]byte{0x33}, crypto.MasterKeySize))
	require.NoError(t, err)
	svc, err := New(capsulestore.NewInMemoryStore(), guardianstore.NewInMemoryStore(), enc)
	require.NoError(t, err)

	created := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), created)
	alice := id.NewIdentityKey()
	bob := id.NewIdentityKey()

	testutil.Given(t, "alice sealed a capsule for a year", func(t *testing.T) {
		res, err := svc.CreateCapsule(ctx, alice, "will", 365)
		require.NoError(t, err)
		require.Equal(t, uint64(0), res.Index)

		testutil.When(t, "bob asks for an emergency release without a registry entry", func(t *testing.T) {
			_, err := svc.GuardianUnlockCapsule(ctx, bob, alice.String(), 0)

			testutil.Then(t, "the request is refused and the capsule stays sealed", func(t *testing.T) {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
				list, err := svc.ListMyCapsules(ctx, alice)
				require.NoError(t, err)
				assert.Equal(t, models.StateSealed, list[0].State())
			})
		})

		testutil.When(t, "bob registers alice's address in his own registry", func(t *testing.T) {
			_, err := svc.AddGuardian(ctx, bob, alice.String())
			require.NoError(t, err)

			res, err := svc.GuardianUnlockCapsule(ctx, bob, alice.String(), 0)

			testutil.Then(t, "the capsule is released a year early", func(t *testing.T) {
				require.NoError(t, err)
				assert.Equal(t, "will", res.Plaintext)
				assert.True(t, res.UnlockTime.After(created))
				list, err := svc.ListMyCapsules(ctx, alice)
				require.NoError(t, err)
				assert.Equal(t, models.StateReleased, list[0].State())
			})
		})
	})
}
