package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"timecapsule/internal/capsule/service"
	capsulestore "timecapsule/internal/capsule/store/capsule"
	guardianstore "timecapsule/internal/capsule/store/guardian"
	"timecapsule/internal/platform/config"
	platformredis "timecapsule/internal/platform/redis"
	"timecapsule/internal/platform/sqldb"
	"timecapsule/pkg/platform/audit/publisher"
	"timecapsule/pkg/platform/audit/store/fallback"
	"timecapsule/pkg/platform/audit/store/kafka"
	auditmemory "timecapsule/pkg/platform/audit/store/memory"
	"timecapsule/pkg/platform/circuit"
)

type storeSet struct {
	capsules  service.CapsuleStore
	guardians service.GuardianRegistry
	tx        service.StoreTx
	health    map[string]healthCheck
	closers   []func() error
}

func (s *storeSet) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// buildStores selects the capsule and guardian backends. Redis, when
// configured, takes over the guardian registry from the primary backend.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*storeSet, error) {
	set := &storeSet{health: map[string]healthCheck{}}

	switch cfg.Storage {
	case config.StorageMemory:
		set.capsules = capsulestore.NewInMemoryStore()
		set.guardians = guardianstore.NewInMemoryStore()
	case config.StoragePostgres, config.StorageSQLite:
		db, err := sqldb.Open(ctx, cfg.Storage, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Storage, err)
		}
		set.closers = append(set.closers, db.Close)
		set.health["database"] = db.HealthCheck
		set.capsules = capsulestore.NewSQLStore(db)
		set.guardians = guardianstore.NewSQLStore(db)
		set.tx = db
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		set.Close()
		return nil, err
	}
	if client != nil {
		set.closers = append(set.closers, client.Close)
		set.health["redis"] = client.Health
		set.guardians = guardianstore.NewRedisStore(client.Client)
		log.Info("guardian registry backed by redis")
	}
	return set, nil
}

type auditSet struct {
	publisher *publisher.Publisher
	kafka     *kgo.Client
}

// Close drains buffered events before tearing down the Kafka client.
func (a *auditSet) Close() {
	a.publisher.Close()
	if a.kafka != nil {
		a.kafka.Close()
	}
}

// buildAudit keeps events in memory, or sends them to Kafka with the
// in-memory store taking over while the broker is failing.
func buildAudit(cfg config.Server, log *slog.Logger) (*auditSet, error) {
	local := auditmemory.NewInMemoryStore()
	opts := []publisher.Option{
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(log),
	}
	if len(cfg.Audit.KafkaBrokers) == 0 {
		return &auditSet{publisher: publisher.NewPublisher(local, opts...)}, nil
	}

	client, err := kafka.NewClient(cfg.Audit.KafkaBrokers, serviceName)
	if err != nil {
		return nil, err
	}
	breaker := circuit.New("audit-kafka", circuit.WithFailureThreshold(cfg.Audit.FailureThreshold))
	sink := fallback.New(kafka.New(client, cfg.Audit.Topic), local, breaker, log)
	return &auditSet{
		publisher: publisher.NewPublisher(sink, opts...),
		kafka:     client,
	}, nil
}
