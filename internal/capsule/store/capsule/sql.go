package capsule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timecapsule/internal/capsule/models"
	"timecapsule/internal/platform/sqldb"
	id "timecapsule/pkg/domain"
)

// SQLStore persists capsules in Postgres or SQLite. Timestamps are stored
// as unix seconds.
type SQLStore struct {
	db *sqldb.DB
}

func NewSQLStore(db *sqldb.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Create assigns the next index for owner and inserts the capsule in one
// transaction. A concurrent writer racing for the same index fails on the primary key.
func (s *SQLStore) Create(ctx context.Context, owner id.IdentityKey, capsule models.Capsule) (uint64, error) {
	var index uint64
	err := s.db.RunInTx(ctx, func(ctx context.Context) error {
		q := s.db.Conn(ctx)
		var next int64
		row := q.QueryRowContext(ctx,
			s.db.Dialect.Rebind(`SELECT COALESCE(MAX(idx) + 1, 0) FROM capsules WHERE owner_id = ?`),
			owner.String(),
		)
		if err := row.Scan(&next); err != nil {
			return fmt.Errorf("next capsule index: %w", err)
		}
		_, err := q.ExecContext(ctx,
			s.db.Dialect.Rebind(`INSERT INTO capsules (owner_id, idx, encrypted_payload, unlock_time, created_at, is_unlocked)
VALUES (?, ?, ?, ?, ?, ?)`),
			owner.String(),
			next,
			capsule.EncryptedPayload,
			capsule.UnlockTime.Unix(),
			capsule.CreatedAt.Unix(),
			capsule.IsUnlocked,
		)
		if sqldb.IsUniqueViolation(err) {
			return fmt.Errorf("insert capsule %d: %w", next, ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("insert capsule: %w", err)
		}
		index = uint64(next)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

func (s *SQLStore) ListByOwner(ctx context.Context, owner id.IdentityKey) ([]models.Capsule, error) {
	rows, err := s.db.Conn(ctx).QueryContext(ctx,
		s.db.Dialect.Rebind(`SELECT idx, encrypted_payload, unlock_time, created_at, is_unlocked
FROM capsules WHERE owner_id = ? ORDER BY idx`),
		owner.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list capsules: %w", err)
	}
	defer rows.Close()

	capsules := []models.Capsule{}
	for rows.Next() {
		c, err := scanCapsule(rows, owner)
		if err != nil {
			return nil, err
		}
		capsules = append(capsules, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate capsules: %w", err)
	}
	return capsules, nil
}

func (s *SQLStore) FindByIndex(ctx context.Context, owner id.IdentityKey, index uint64) (*models.Capsule, error) {
	row := s.db.Conn(ctx).QueryRowContext(ctx,
		s.db.Dialect.Rebind(`SELECT idx, encrypted_payload, unlock_time, created_at, is_unlocked
FROM capsules WHERE owner_id = ? AND idx = ?`),
		owner.String(),
		int64(index),
	)
	c, err := scanCapsule(row, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLStore) MarkUnlocked(ctx context.Context, owner id.IdentityKey, index uint64) error {
	res, err := s.db.Conn(ctx).ExecContext(ctx,
		s.db.Dialect.Rebind(`UPDATE capsules SET is_unlocked = ? WHERE owner_id = ? AND idx = ?`),
		true,
		owner.String(),
		int64(index),
	)
	if err != nil {
		return fmt.Errorf("mark capsule unlocked: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark capsule unlocked: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapsule(row scanner, owner id.IdentityKey) (*models.Capsule, error) {
	var (
		idx        int64
		payload    string
		unlockTime int64
		createdAt  int64
		unlocked   bool
	)
	if err := row.Scan(&idx, &payload, &unlockTime, &createdAt, &unlocked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan capsule: %w", err)
	}
	return &models.Capsule{
		Owner:            owner,
		Index:            uint64(idx),
		EncryptedPayload: payload,
		UnlockTime:       time.Unix(unlockTime, 0).UTC(),
		CreatedAt:        time.Unix(createdAt, 0).UTC(),
		IsUnlocked:       unlocked,
	}, nil
}
