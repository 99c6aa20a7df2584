package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecapsule/internal/capsule/crypto"
	"timecapsule/internal/capsule/service"
	jwttoken "timecapsule/internal/jwt_token"
	"timecapsule/internal/platform/config"
	platformmetrics "timecapsule/internal/platform/metrics"
	id "timecapsule/pkg/domain"
)

const testAdminToken = "admin-secret"

func testConfig(t *testing.T, storage string) config.Server {
	t.Helper()
	return config.Server{
		Storage:    storage,
		SQLitePath: filepath.Join(t.TempDir(), "capsules.db"),
		MasterKey:  base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01}, 32)),
		LogLevel:   "info",
		TxTimeout:  time.Second,
		JWT:        config.JWTConfig{SigningKey: "secret", Issuer: "timecapsule", Audience: "timecapsule-api"},
		Audit:      config.AuditConfig{BufferSize: 16},
	}
}

func newTestServer(t *testing.T, storage string) (*httptest.Server, *jwttoken.JWTService) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, storage)

	stores, err := buildStores(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	audit, err := buildAudit(cfg, log)
	require.NoError(t, err)
	t.Cleanup(audit.Close)

	key, err := cfg.MasterKeyBytes()
	require.NoError(t, err)
	enc, err := crypto.NewAESGCM(key)
	require.NoError(t, err)

	opts := []service.Option{service.WithAuditPublisher(audit.publisher)}
	if stores.tx != nil {
		opts = append(opts, service.WithStoreTx(stores.tx))
	}
	svc, err := service.New(stores.capsules, stores.guardians, enc, opts...)
	require.NoError(t, err)

	tokens := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	router := newRouter(routerDeps{
		log:         log,
		service:     svc,
		validator:   jwttoken.NewJWTServiceAdapter(tokens),
		auditLister: audit.publisher,
		httpMetrics: platformmetrics.New(prometheus.NewRegistry()),
		health:      stores.health,
		adminToken:  testAdminToken,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func call(t *testing.T, srv *httptest.Server, token, method, path string, body any) (int, map[string]any) {
	t.Helper()
	return callWithHeaders(t, srv, token, nil, method, path, body)
}

func callWithHeaders(t *testing.T, srv *httptest.Server, token string, headers map[string]string, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestServer_CapsuleFlow(t *testing.T) {
	for _, storage := range []string{config.StorageMemory, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			srv, tokens := newTestServer(t, storage)
			owner := id.NewIdentityKey()
			guardian := id.NewIdentityKey()
			ownerToken, err := tokens.GenerateIdentityToken(owner, time.Hour)
			require.NoError(t, err)
			guardianToken, err := tokens.GenerateIdentityToken(guardian, time.Hour)
			require.NoError(t, err)

			status, body := call(t, srv, ownerToken, http.MethodPost, "/capsules", map[string]any{"plaintext": "open later", "delay_days": 30})
			require.Equal(t, http.StatusCreated, status, body)

			status, body = call(t, srv, ownerToken, http.MethodPost, "/capsules/0/unlock", nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "not_ready", body["status"])

			status, _ = call(t, srv, guardianToken, http.MethodPost, "/guardians/unlock", map[string]any{"owner_address": owner.String(), "index": 0})
			assert.Equal(t, http.StatusForbidden, status)

			status, _ = call(t, srv, guardianToken, http.MethodPost, "/guardians", map[string]any{"guardian_address": owner.String()})
			assert.Equal(t, http.StatusCreated, status)

			status, body = call(t, srv, guardianToken, http.MethodPost, "/guardians/unlock", map[string]any{"owner_address": owner.String(), "index": 0})
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "emergency_released", body["status"])
			assert.Equal(t, "open later", body["plaintext"])

			status, body = call(t, srv, ownerToken, http.MethodGet, "/capsules", nil)
			require.Equal(t, http.StatusOK, status)
			capsules := body["capsules"].([]any)
			require.Len(t, capsules, 1)
			assert.Equal(t, true, capsules[0].(map[string]any)["is_unlocked"])

			require.Eventually(t, func() bool {
				status, body := callWithHeaders(t, srv, "", map[string]string{"X-Admin-Token": testAdminToken},
					http.MethodGet, "/admin/audit/"+owner.String(), nil)
				if status != http.StatusOK {
					return false
				}
				events, _ := body["events"].([]any)
				return len(events) == 4
			}, time.Second, 10*time.Millisecond)
		})
	}
}

func TestServer_PublicAndProtectedRoutes(t *testing.T) {
	srv, _ := newTestServer(t, config.StorageMemory)

	status, body := call(t, srv, "", http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.Version, body["version"])

	status, body = call(t, srv, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, _ = call(t, srv, "", http.MethodGet, "/capsules", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, srv, "not-a-jwt", http.MethodGet, "/capsules", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, srv, "", http.MethodGet, "/admin/audit/"+id.NewIdentityKey().String(), nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthHandler_ReportsFailingDependency(t *testing.T) {
	h := healthHandler(map[string]healthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}, time.Second)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}
