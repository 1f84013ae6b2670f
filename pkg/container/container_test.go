package container

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/config"
	"github.com/jordanlanch/referralhub/pkg/auth"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/store/memory"
	"github.com/jordanlanch/referralhub/pkg/store/redisstore"
	"github.com/jordanlanch/referralhub/pkg/store/sqlstore"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		APIEnvironment:     "test",
		StoreDriver:        driver,
		JWTSecret:          "test-secret-key-minimum-32-characters-long",
		JWTExpirationHours: 1,
		DefaultPhoneRegion: "US",
		LogLevel:           "error",
	}
}

func TestNew_MemoryStore(t *testing.T) {
	c, err := NewWithLogger(testConfig(config.StoreMemory), logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &memory.Store{}, c.Store)
	assert.IsType(t, &auth.MemoryBlacklist{}, c.Revoker)
	assert.Nil(t, c.Cache)
	assert.NotNil(t, c.Handlers.Auth)
	assert.NotNil(t, c.Handlers.Chatbot)
	assert.NotNil(t, c.CronManager)

	ctx := context.Background()
	resp, err := c.AccountService.Register(ctx, models.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestNew_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StoreRedis)
	cfg.RedisURL = "redis://" + mr.Addr()

	c, err := NewWithLogger(cfg, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &redisstore.Store{}, c.Store)
	assert.IsType(t, &auth.TokenBlacklist{}, c.Revoker)
	require.NoError(t, c.Store.Ping(context.Background()))
	require.NoError(t, c.Close())
}

func TestNew_MemoryStoreWithRedisBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StoreMemory)
	cfg.RedisURL = "redis://" + mr.Addr()

	c, err := NewWithLogger(cfg, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &memory.Store{}, c.Store)
	assert.IsType(t, &auth.TokenBlacklist{}, c.Revoker)
	require.NoError(t, c.Close())
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := testConfig(config.StoreSQLite)
	cfg.DatabaseURL = "file:container_test?mode=memory&cache=shared"

	c, err := NewWithLogger(cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &sqlstore.Store{}, c.Store)
	require.NoError(t, c.Store.Ping(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := NewWithLogger(testConfig("mongo"), logger.Nop())
	require.Error(t, err)

	cfg := testConfig(config.StoreMemory)
	cfg.RedisURL = "redis://127.0.0.1:1"
	_, err = NewWithLogger(cfg, logger.Nop())
	require.Error(t, err)
}
