// Package sqldb opens the SQL backends and applies the embedded schema.
//
// Queries are written once with "?" placeholders and rebound per dialect,
// so one store implementation serves both lib/pq and modernc SQLite.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB pairs a handle with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Rebind converts "?" placeholders to the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// OpenPostgres connects with lib/pq and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return finishOpen(ctx, sqlDB, DialectPostgres)
}

// OpenSQLite opens a file-backed SQLite database and applies migrations.
// A single connection serializes writers so concurrent requests never see SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return finishOpen(ctx, sqlDB, DialectSQLite)
}

func finishOpen(ctx context.Context, sqlDB *sql.DB, dialect Dialect) (*DB, error) {
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	db := &DB{DB: sqlDB, Dialect: dialect}
	if err := ApplyMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// Wrap adopts an existing handle, for tests that own the connection.
func Wrap(ctx context.Context, sqlDB *sql.DB, dialect Dialect) (*DB, error) {
	db := &DB{DB: sqlDB, Dialect: dialect}
	if err := ApplyMigrations(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// HealthCheck pings the database.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Open picks a backend by name.
func Open(ctx context.Context, backend, databaseURL, sqlitePath string) (*DB, error) {
	switch Dialect(backend) {
	case DialectPostgres:
		return OpenPostgres(ctx, databaseURL)
	case DialectSQLite:
		return OpenSQLite(ctx, sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported sql backend %q", backend)
	}
}

// IsUniqueViolation reports whether err is a primary key or unique constraint
// failure on either backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
