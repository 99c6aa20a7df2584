package guardian

import (
	"context"
	"fmt"

	"timecapsule/internal/capsule/models"
	"timecapsule/internal/platform/sqldb"
	id "timecapsule/pkg/domain"
	"timecapsule/pkg/platform/sentinel"
)

// ErrConflict is returned when another writer took the next position first.
var ErrConflict = sentinel.ErrConflict

// SQLStore persists guardian registrations. The (owner_id, guardian_address)
// primary key makes a duplicate insert a no-op.
type SQLStore struct {
	db *sqldb.DB
}

func NewSQLStore(db *sqldb.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Add(ctx context.Context, owner id.IdentityKey, address string) (models.AddStatus, error) {
	status := models.AddStatusAlreadyExists
	err := s.db.RunInTx(ctx, func(ctx context.Context) error {
		q := s.db.Conn(ctx)
		res, err := q.ExecContext(ctx,
			s.db.Dialect.Rebind(`INSERT INTO guardians (owner_id, position, guardian_address)
SELECT ?, COALESCE(MAX(position) + 1, 0), ? FROM guardians WHERE owner_id = ?
ON CONFLICT (owner_id, guardian_address) DO NOTHING`),
			owner.String(),
			address,
			owner.String(),
		)
		if sqldb.IsUniqueViolation(err) {
			return fmt.Errorf("insert guardian: %w", ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("insert guardian: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert guardian: %w", err)
		}
		if affected > 0 {
			status = models.AddStatusAdded
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func (s *SQLStore) ListByOwner(ctx context.Context, owner id.IdentityKey) ([]string, error) {
	rows, err := s.db.Conn(ctx).QueryContext(ctx,
		s.db.Dialect.Rebind(`SELECT guardian_address FROM guardians WHERE owner_id = ? ORDER BY position`),
		owner.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	defer rows.Close()

	guardians := []string{}
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("scan guardian: %w", err)
		}
		guardians = append(guardians, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guardians: %w", err)
	}
	return guardians, nil
}

func (s *SQLStore) IsGuardianOf(ctx context.Context, owner id.IdentityKey, candidate string) (bool, error) {
	var count int
	row := s.db.Conn(ctx).QueryRowContext(ctx,
		s.db.Dialect.Rebind(`SELECT COUNT(*) FROM guardians WHERE owner_id = ? AND guardian_address = ?`),
		owner.String(),
		candidate,
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check guardian: %w", err)
	}
	return count > 0, nil
}
