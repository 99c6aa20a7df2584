//go:build integration

package capsule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"timecapsule/internal/platform/sqldb"
	"timecapsule/pkg/testutil/containers"
)

func TestPostgresStoreSuite(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	db, err := sqldb.Wrap(context.Background(), pg.DB, sqldb.DialectPostgres)
	if err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewSQLStore(db) }})
}
