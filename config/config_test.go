package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "API_ENVIRONMENT", "STORE_DRIVER", "DATABASE_URL", "REDIS_URL", "JWT_SECRET",
		"JWT_EXPIRATION_HOURS", "CORS_ALLOWED_ORIGINS", "FRONTEND_URL", "CRON_ENABLED",
		"TRACKING_RATE_LIMIT_PER_MINUTE", "SENTRY_ENVIRONMENT", "DEFAULT_PHONE_REGION",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 168, cfg.JWTExpirationHours)
	assert.Equal(t, 30, cfg.TrackingRateLimitPerMinute)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "development", cfg.SentryEnvironment)
	assert.Equal(t, "US", cfg.DefaultPhoneRegion)
	assert.True(t, cfg.CronEnabled)
	assert.False(t, cfg.IsProduction())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ENVIRONMENT", "production")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/referralhub?sslmode=disable")
	t.Setenv("JWT_SECRET", "a-real-secret-with-enough-length-000")
	t.Setenv("JWT_EXPIRATION_HOURS", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("TRACKING_RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("SENTRY_ENVIRONMENT", "")

	cfg := Load()
	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.CronEnabled)
	assert.Equal(t, 30, cfg.TrackingRateLimitPerMinute)
	assert.Equal(t, "production", cfg.SentryEnvironment)
	assert.True(t, cfg.IsProduction())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"unknown driver", Config{StoreDriver: "mongo", JWTExpirationHours: 1}, "unknown STORE_DRIVER"},
		{"redis without url", Config{StoreDriver: StoreRedis, JWTExpirationHours: 1}, "REDIS_URL is required"},
		{"sqlite without dsn", Config{StoreDriver: StoreSQLite, JWTExpirationHours: 1}, "DATABASE_URL is required"},
		{"zero expiry", Config{StoreDriver: StoreMemory}, "JWT_EXPIRATION_HOURS"},
		{"default secret in production", Config{StoreDriver: StoreMemory, JWTExpirationHours: 1, APIEnvironment: "production", JWTSecret: defaultJWTSecret}, "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
