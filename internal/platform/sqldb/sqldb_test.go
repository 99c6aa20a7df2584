package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	q := "SELECT * FROM capsules WHERE owner_id = ? AND idx = ?"
	assert.Equal(t, "SELECT * FROM capsules WHERE owner_id = $1 AND idx = $2", DialectPostgres.Rebind(q))
	assert.Equal(t, q, DialectSQLite.Rebind(q))
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x INT);\n", ExtractUpMigration(content))
	assert.Equal(t, "CREATE TABLE b (y INT);", ExtractUpMigration("CREATE TABLE b (y INT);"))
}

func TestOpenSQLite_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "capsules.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, ApplyMigrations(ctx, db), "re-applying is a no-op")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+migrationTable).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, db.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.HealthCheck(ctx))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", "")
	assert.Error(t, err)
}

func TestIsUniqueViolation_SQLitePrimaryKey(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "pk.db"))
	require.NoError(t, err)
	defer db.Close()

	insert := "INSERT INTO capsules (owner_id, idx, encrypted_payload, unlock_time, created_at, is_unlocked) VALUES (?, ?, ?, ?, ?, ?)"
	_, err = db.ExecContext(ctx, insert, "o", 0, "c", 1, 1, false)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "o", 0, "c", 1, 1, false)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = db.RunInTx(ctx, func(ctx context.Context) error {
		_, err := db.Conn(ctx).ExecContext(ctx,
			"INSERT INTO guardians (owner_id, position, guardian_address) VALUES (?, ?, ?)", "o", 0, "g")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guardians").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested.db"))
	require.NoError(t, err)
	defer db.Close()

	err = db.RunInTx(ctx, func(outer context.Context) error {
		return db.RunInTx(outer, func(inner context.Context) error {
			_, err := db.Conn(inner).ExecContext(inner,
				"INSERT INTO guardians (owner_id, position, guardian_address) VALUES (?, ?, ?)", "o", 0, "g")
			return err
		})
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guardians").Scan(&count))
	assert.Equal(t, 1, count)
}
