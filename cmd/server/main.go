package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"timecapsule/internal/capsule/crypto"
	capsulehandler "timecapsule/internal/capsule/handler"
	capsulemetrics "timecapsule/internal/capsule/metrics"
	"timecapsule/internal/capsule/service"
	jwttoken "timecapsule/internal/jwt_token"
	"timecapsule/internal/platform/config"
	"timecapsule/internal/platform/httpserver"
	"timecapsule/internal/platform/logger"
	platformmetrics "timecapsule/internal/platform/metrics"
	"timecapsule/internal/platform/otel"
	"timecapsule/pkg/platform/middleware/admin"
	authmw "timecapsule/pkg/platform/middleware/auth"
	"timecapsule/pkg/platform/middleware/metadata"
	"timecapsule/pkg/platform/middleware/request"
	"timecapsule/pkg/platform/middleware/requesttime"
)

const serviceName = "timecapsule"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/capsule.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timecapsule: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	log := logger.New(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	stores, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	audit, err := buildAudit(cfg, log)
	if err != nil {
		return err
	}
	defer audit.Close()

	masterKey, err := cfg.MasterKeyBytes()
	if err != nil {
		return err
	}
	encryptor, err := crypto.NewAESGCM(masterKey)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(audit.publisher),
		service.WithMetrics(capsulemetrics.New(reg)),
		service.WithTxTimeout(cfg.TxTimeout),
		service.WithDevMode(cfg.DevMode),
	}
	if stores.tx != nil {
		opts = append(opts, service.WithStoreTx(stores.tx))
	}
	svc, err := service.New(stores.capsules, stores.guardians, encryptor, opts...)
	if err != nil {
		return fmt.Errorf("build capsule service: %w", err)
	}

	tokens := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	httpMetrics := platformmetrics.New(reg)
	router := newRouter(routerDeps{
		log:         log,
		service:     svc,
		validator:   jwttoken.NewJWTServiceAdapter(tokens),
		auditLister: audit.publisher,
		httpMetrics: httpMetrics,
		health:      stores.health,
		adminToken:  cfg.AdminToken,
		devMode:     cfg.DevMode,
	})

	srv := httpserver.New(cfg.Addr, router)
	metricsSrv := httpserver.New(cfg.MetricsAddr, platformmetrics.Handler(reg))

	log.Info("starting timecapsule",
		"addr", cfg.Addr,
		"metrics_addr", cfg.MetricsAddr,
		"storage", cfg.Storage,
		"redis_guardians", cfg.Redis.URL != "",
		"kafka_audit", len(cfg.Audit.KafkaBrokers) > 0,
		"dev_mode", cfg.DevMode,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(srv) })
	g.Go(func() error { return serve(metricsSrv) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type routerDeps struct {
	log         *slog.Logger
	service     capsulehandler.Service
	validator   authmw.IdentityValidator
	auditLister capsulehandler.AuditLister
	httpMetrics *platformmetrics.Metrics
	health      map[string]healthCheck
	adminToken  string
	devMode     bool
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.log))
	r.Use(request.Logger(d.log))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(d.httpMetrics.Middleware)

	h := capsulehandler.New(d.service, d.log, d.devMode)
	r.Get("/health", healthHandler(d.health, 2*time.Second))
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(authmw.RequireAuth(d.validator, d.log))
		h.Register(r)
	})
	if d.adminToken != "" && d.auditLister != nil {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(d.adminToken, d.log))
			capsulehandler.NewAuditHandler(d.auditLister, d.log).Register(r)
		})
	}
	return r
}
