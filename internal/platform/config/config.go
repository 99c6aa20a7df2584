// Package config loads server configuration from CAPSULE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"timecapsule/internal/capsule/crypto"
	platformstrings "timecapsule/pkg/platform/strings"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// devJWTSigningKey is only accepted when DevMode is on.
const devJWTSigningKey = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string        `env:"CAPSULE_ADDR"             envDefault:":8080"`
	MetricsAddr string        `env:"CAPSULE_METRICS_ADDR"     envDefault:":9090"`
	LogLevel    string        `env:"CAPSULE_LOG_LEVEL"        envDefault:"info"`
	DevMode     bool          `env:"CAPSULE_DEV_MODE"`
	TxTimeout   time.Duration `env:"CAPSULE_TX_TIMEOUT"       envDefault:"5s"`
	Shutdown    time.Duration `env:"CAPSULE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Storage     string `env:"CAPSULE_STORAGE"      envDefault:"memory"`
	DatabaseURL string `env:"CAPSULE_DATABASE_URL"`
	SQLitePath  string `env:"CAPSULE_SQLITE_PATH"  envDefault:"capsules.db"`

	MasterKey string `env:"CAPSULE_MASTER_KEY"`

	JWT   JWTConfig
	Redis RedisConfig
	Audit AuditConfig

	// AdminToken enables the operator audit route when set.
	AdminToken string `env:"CAPSULE_ADMIN_TOKEN"`

	OTelEndpoint string `env:"CAPSULE_OTEL_ENDPOINT"`
}

// JWTConfig configures identity token validation.
type JWTConfig struct {
	SigningKey string        `env:"CAPSULE_JWT_SIGNING_KEY"`
	Issuer     string        `env:"CAPSULE_JWT_ISSUER"      envDefault:"timecapsule"`
	Audience   string        `env:"CAPSULE_JWT_AUDIENCE"    envDefault:"timecapsule-api"`
	TokenTTL   time.Duration `env:"CAPSULE_JWT_TOKEN_TTL"   envDefault:"1h"`
}

// RedisConfig configures the optional Redis guardian registry.
// An empty URL leaves guardians in the primary storage backend.
type RedisConfig struct {
	URL          string        `env:"CAPSULE_REDIS_URL"`
	PoolSize     int           `env:"CAPSULE_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"CAPSULE_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CAPSULE_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CAPSULE_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"CAPSULE_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// AuditConfig configures audit delivery. With no brokers, events stay in memory.
type AuditConfig struct {
	KafkaBrokers     []string `env:"CAPSULE_KAFKA_BROKERS"            envSeparator:","`
	Topic            string   `env:"CAPSULE_AUDIT_TOPIC"              envDefault:"capsule.audit"`
	BufferSize       int      `env:"CAPSULE_AUDIT_BUFFER"             envDefault:"1024"`
	FailureThreshold int      `env:"CAPSULE_AUDIT_FAILURE_THRESHOLD"  envDefault:"5"`
}

// FromEnv parses and validates the server configuration.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.Audit.KafkaBrokers = platformstrings.DedupeAndTrim(cfg.Audit.KafkaBrokers)
	if cfg.DevMode && cfg.JWT.SigningKey == "" {
		cfg.JWT.SigningKey = devJWTSigningKey
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants env tags cannot express.
func (c Server) Validate() error {
	var errs []error
	switch c.Storage {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("CAPSULE_SQLITE_PATH is required for sqlite storage"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("CAPSULE_DATABASE_URL is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CAPSULE_STORAGE %q", c.Storage))
	}
	if _, err := c.MasterKeyBytes(); err != nil {
		errs = append(errs, err)
	}
	if c.JWT.SigningKey == "" {
		errs = append(errs, errors.New("CAPSULE_JWT_SIGNING_KEY is required"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.TxTimeout <= 0 {
		errs = append(errs, errors.New("CAPSULE_TX_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// MasterKeyBytes decodes the capsule master key.
func (c Server) MasterKeyBytes() ([]byte, error) {
	if c.MasterKey == "" {
		return nil, errors.New("CAPSULE_MASTER_KEY is required")
	}
	key, err := crypto.DecodeMasterKey(c.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("CAPSULE_MASTER_KEY: %w", err)
	}
	return key, nil
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid CAPSULE_LOG_LEVEL %q", level)
	}
	return l, nil
}
