package redisstore

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/cache"
	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/store/storetest"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := &cache.Client{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })
	return New(client, "test"), mr
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		s, _ := setupTestStore(t)
		return s
	})
}

func TestStore_CountersAreHashFields(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	r := &models.Referral{ID: "r1", CampaignID: "c1", ReferrerID: "u1", Code: "ABC123", CreatedAt: time.Now()}
	require.NoError(t, s.CreateReferral(ctx, r))

	_, err := s.IncrementClicks(ctx, "ABC123")
	require.NoError(t, err)
	_, err = s.IncrementClicks(ctx, "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "2", mr.HGet("test:referral:r1", "clicks"))
	assert.Equal(t, "0", mr.HGet("test:referral:r1", "conversions"))

	id, err := mr.Get("test:referral:code:ABC123")
	require.NoError(t, err)
	assert.Equal(t, "r1", id)
}

func TestStore_UnknownCodeCreatesNothing(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	_, err := s.IncrementConversions(ctx, "GHOST1")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, mr.Keys())
}

func TestStore_DefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &cache.Client{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	defer client.Close()

	s := New(client, "")
	require.NoError(t, s.CreateCampaign(context.Background(), &models.Campaign{ID: "c1", Title: "x", CreatedAt: time.Now()}))
	assert.True(t, mr.Exists("referralhub:campaign:c1"))
}

// failingTxHook fails every MULTI/EXEC pipeline while enabled and lets plain
// commands through.
type failingTxHook struct {
	enabled bool
}

func (h *failingTxHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *failingTxHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *failingTxHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if h.enabled && len(cmds) > 0 && cmds[0].Name() == "multi" {
			return errors.New("connection reset")
		}
		return next(ctx, cmds)
	}
}

func setupFailingStore(t *testing.T) (*Store, *miniredis.Miniredis, *failingTxHook) {
	s, mr := setupTestStore(t)
	hook := &failingTxHook{}
	s.rdb.AddHook(hook)
	return s, mr, hook
}

func TestStore_FailedReferralWriteReleasesCode(t *testing.T) {
	s, mr, hook := setupFailingStore(t)
	ctx := context.Background()
	r := &models.Referral{ID: "r1", CampaignID: "c1", ReferrerID: "u1", Code: "ABC123", CreatedAt: time.Now()}

	hook.enabled = true
	err := s.CreateReferral(ctx, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, mr.Exists("test:referral:code:ABC123"))

	_, err = s.GetReferralByCode(ctx, "ABC123")
	assert.True(t, domain.IsNotFound(err))

	hook.enabled = false
	require.NoError(t, s.CreateReferral(ctx, r))

	got, err := s.IncrementClicks(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Clicks)
	assert.Equal(t, int64(0), got.Conversions)
}

func TestStore_FailedAccountWriteReleasesEmail(t *testing.T) {
	s, mr, hook := setupFailingStore(t)
	ctx := context.Background()
	a := &models.Account{ID: "u1", Name: "Ann", Email: "ann@example.com", CreatedAt: time.Now()}

	hook.enabled = true
	require.Error(t, s.CreateAccount(ctx, a))
	assert.False(t, mr.Exists("test:account:email:ann@example.com"))

	_, err := s.GetAccountByEmail(ctx, "ann@example.com")
	assert.True(t, domain.IsNotFound(err))

	hook.enabled = false
	require.NoError(t, s.CreateAccount(ctx, a))
	got, err := s.GetAccountByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestStore_ReleaseKeepsClaimOfAnotherOwner(t *testing.T) {
	s, mr := setupTestStore(t)
	require.NoError(t, mr.Set("test:referral:code:ABC123", "r2"))

	s.release(context.Background(), "test:referral:code:ABC123", "r1")

	id, err := mr.Get("test:referral:code:ABC123")
	require.NoError(t, err)
	assert.Equal(t, "r2", id)
}

func TestStore_IncrementOnDanglingCodeCreatesNothing(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("test:referral:code:ORPHAN", "r9"))

	_, err := s.IncrementClicks(ctx, "ORPHAN")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	_, err = s.IncrementConversions(ctx, "ORPHAN")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	assert.False(t, mr.Exists("test:referral:r9"))
}
