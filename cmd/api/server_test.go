package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/config"
	"github.com/jordanlanch/referralhub/pkg/container"
	"github.com/jordanlanch/referralhub/pkg/logger"
)

func setupServer(t *testing.T) *server {
	t.Helper()
	cfg := &config.Config{
		APIEnvironment:             "test",
		StoreDriver:                config.StoreMemory,
		JWTSecret:                  "test-secret-key-minimum-32-characters-long",
		JWTExpirationHours:         1,
		RateLimitRequestsPerMinute: 600,
		RateLimitBurst:             100,
		TrackingRateLimitPerMinute: 600,
	}
	c, err := container.NewWithLogger(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	srv := newServer(c)
	t.Cleanup(srv.stopLimiters)
	return srv
}

func TestServer_Health(t *testing.T) {
	srv := setupServer(t)

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["driver"])
}

func TestServer_MetricsExposeRequests(t *testing.T) {
	srv := setupServer(t)

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))

	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestServer_ProtectedRouteRequiresToken(t *testing.T) {
	srv := setupServer(t)

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_SwaggerDocSkipsCSP(t *testing.T) {
	srv := setupServer(t)

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ReferralHub API")
	assert.Contains(t, rec.Body.String(), "/referrals/click/{code}")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}
