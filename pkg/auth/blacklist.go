package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/jordanlanch/referralhub/pkg/cache"
	"github.com/jordanlanch/referralhub/pkg/domain"
)

var (
	_ domain.TokenRevoker = (*TokenBlacklist)(nil)
	_ domain.TokenRevoker = (*MemoryBlacklist)(nil)
)

// TokenBlacklist manages revoked JWT tokens in Redis
type TokenBlacklist struct {
	cache *cache.Client
}

// NewTokenBlacklist creates a new token blacklist
func NewTokenBlacklist(cache *cache.Client) *TokenBlacklist {
	return &TokenBlacklist{
		cache: cache,
	}
}

// Add adds a token to the blacklist with expiration
func (b *TokenBlacklist) Add(ctx context.Context, token string, expiration time.Duration) error {
	return b.cache.Set(ctx, blacklistKey(token), "revoked", expiration)
}

// IsBlacklisted checks if a token is blacklisted
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKey(token))
}

// MemoryBlacklist keeps revoked tokens in process. Used when no Redis is
// configured; entries are lost on restart.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Add(_ context.Context, token string, expiration time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for k, exp := range b.entries {
		if !exp.IsZero() && now.After(exp) {
			delete(b.entries, k)
		}
	}

	var exp time.Time
	if expiration > 0 {
		exp = now.Add(expiration)
	}
	b.entries[blacklistKey(token)] = exp
	return nil
}

func (b *MemoryBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[blacklistKey(token)]
	if !ok {
		return false, nil
	}
	if !exp.IsZero() && b.now().After(exp) {
		return false, nil
	}
	return true, nil
}

// blacklistKey hashes the token so raw tokens are never stored
func blacklistKey(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("jwt:blacklist:%s", hex.EncodeToString(hash[:]))
}
