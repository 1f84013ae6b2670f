package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/cache"
)

func setupTestRedis(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestTokenBlacklist_Add(t *testing.T) {
	client, mr := setupTestRedis(t)
	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "test.jwt.token", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "test.jwt.token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// raw token never lands in Redis
	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "test.jwt.token")
		assert.Contains(t, k, "jwt:blacklist:")
	}
}

func TestTokenBlacklist_NotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	blacklist := NewTokenBlacklist(client)

	revoked, err := blacklist.IsBlacklisted(context.Background(), "unknown.token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Expiration(t *testing.T) {
	client, mr := setupTestRedis(t)
	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.Add(ctx, "short.lived.token", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := blacklist.IsBlacklisted(ctx, "short.lived.token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewMemoryBlacklist()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Add(ctx, "a.b.c", time.Minute))
	require.NoError(t, b.Add(ctx, "forever", 0))

	revoked, err := b.IsBlacklisted(ctx, "a.b.c")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsBlacklisted(ctx, "a.b.c")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = b.IsBlacklisted(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, revoked)

	// expired entries are swept on the next Add
	require.NoError(t, b.Add(ctx, "other", time.Minute))
	assert.Len(t, b.entries, 2)
}
