// Package redisstore keeps the application's documents in Redis. Counters live
// in hashes so clicks and conversions use HINCRBY, and unique keys (email,
// referral code) are claimed with SETNX.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jordanlanch/referralhub/pkg/cache"
	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

const defaultPrefix = "referralhub"

// Store implements domain.Store on top of a Redis connection
type Store struct {
	cache  *cache.Client
	rdb    *redis.Client
	prefix string
}

var _ domain.Store = (*Store)(nil)

// New creates a store using keys under the given prefix
func New(client *cache.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{cache: client, rdb: client.Redis, prefix: prefix}
}

func (s *Store) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *Store) Ping(ctx context.Context) error { return s.cache.Ping(ctx) }

func (s *Store) Close() error { return s.cache.Close() }

func score(t time.Time) float64 { return float64(t.UnixMicro()) }

// releaseScript deletes a unique-key claim only while it still names owner.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// release drops a claim whose document write failed so the key can be
// retried. It runs even when ctx is already cancelled.
func (s *Store) release(ctx context.Context, claim, owner string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, s.rdb, []string{claim}, owner).Err(); err != nil {
		log.Printf("⚠️  Failed to release %s: %v", claim, err)
	}
}

// Accounts

type accountDoc struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Phone        string    `json:"phone"`
	IsReferred   bool      `json:"is_referred"`
	ReferredBy   string    `json:"referred_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	claim := s.key("account", "email", a.Email)
	claimed, err := s.rdb.SetNX(ctx, claim, a.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return domain.NewConflictError("User already exists")
	}

	doc, err := json.Marshal(accountDoc(*a))
	if err != nil {
		s.release(ctx, claim, a.ID)
		return fmt.Errorf("failed to encode account: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("account", a.ID), doc, 0)
		pipe.ZAdd(ctx, s.key("accounts"), redis.Z{Score: score(a.CreatedAt), Member: a.ID})
		return nil
	})
	if err != nil {
		s.release(ctx, claim, a.ID)
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	raw, err := s.rdb.Get(ctx, s.key("account", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	var doc accountDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	a := models.Account(doc)
	return &a, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	id, err := s.rdb.Get(ctx, s.key("account", "email", email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("User")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	return s.GetAccount(ctx, id)
}

func (s *Store) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.key("accounts"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Campaigns

func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode campaign: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("campaign", c.ID), doc, 0)
		pipe.ZAdd(ctx, s.key("campaigns"), redis.Z{Score: score(c.CreatedAt), Member: c.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	raw, err := s.rdb.Get(ctx, s.key("campaign", id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("Campaign")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	var c models.Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode campaign: %w", err)
	}
	return &c, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode campaign: %w", err)
	}
	ok, err := s.rdb.SetXX(ctx, s.key("campaign", c.ID), doc, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if !ok {
		return domain.NewNotFoundError("Campaign")
	}
	return nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.key("campaigns"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	out := make([]*models.Campaign, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCampaign(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Referrals

func (s *Store) CreateReferral(ctx context.Context, r *models.Referral) error {
	claim := s.key("referral", "code", r.Code)
	claimed, err := s.rdb.SetNX(ctx, claim, r.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim referral code: %w", err)
	}
	if !claimed {
		return domain.NewConflictError("Referral code already exists")
	}

	z := redis.Z{Score: score(r.CreatedAt), Member: r.ID}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key("referral", r.ID), map[string]interface{}{
			"id":          r.ID,
			"campaign_id": r.CampaignID,
			"referrer_id": r.ReferrerID,
			"code":        r.Code,
			"clicks":      r.Clicks,
			"conversions": r.Conversions,
			"created_at":  r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, s.key("referrals"), z)
		pipe.ZAdd(ctx, s.key("campaign", r.CampaignID, "referrals"), z)
		return nil
	})
	if err != nil {
		s.release(ctx, claim, r.ID)
		return fmt.Errorf("failed to save referral: %w", err)
	}
	return nil
}

func (s *Store) referralIDByCode(ctx context.Context, code string) (string, error) {
	id, err := s.rdb.Get(ctx, s.key("referral", "code", code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.NewNotFoundError("Referral")
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up referral code: %w", err)
	}
	return id, nil
}

func (s *Store) getReferral(ctx context.Context, id string) (*models.Referral, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key("referral", id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get referral: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.NewNotFoundError("Referral")
	}
	return decodeReferral(fields)
}

func decodeReferral(f map[string]string) (*models.Referral, error) {
	clicks, err := strconv.ParseInt(f["clicks"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid clicks counter: %w", err)
	}
	conversions, err := strconv.ParseInt(f["conversions"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid conversions counter: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	return &models.Referral{
		ID:          f["id"],
		CampaignID:  f["campaign_id"],
		ReferrerID:  f["referrer_id"],
		Code:        f["code"],
		Clicks:      clicks,
		Conversions: conversions,
		CreatedAt:   created,
	}, nil
}

func (s *Store) GetReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	id, err := s.referralIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.getReferral(ctx, id)
}

func (s *Store) listReferrals(ctx context.Context, index string, newest bool) ([]*models.Referral, error) {
	var ids []string
	var err error
	if newest {
		ids, err = s.rdb.ZRevRange(ctx, index, 0, -1).Result()
	} else {
		ids, err = s.rdb.ZRange(ctx, index, 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	out := make([]*models.Referral, 0, len(ids))
	for _, id := range ids {
		r, err := s.getReferral(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) ListReferrals(ctx context.Context) ([]*models.Referral, error) {
	return s.listReferrals(ctx, s.key("referrals"), true)
}

func (s *Store) ListReferralsByCampaign(ctx context.Context, campaignID string) ([]*models.Referral, error) {
	return s.listReferrals(ctx, s.key("campaign", campaignID, "referrals"), false)
}

func (s *Store) IncrementClicks(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(ctx, code, "clicks")
}

func (s *Store) IncrementConversions(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(ctx, code, "conversions")
}

// incrementScript bumps a counter only on a hash that holds a saved referral,
// so a dangling code claim never grows a stub record.
var incrementScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], 'id') == 0 then
	return false
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
`)

func (s *Store) increment(ctx context.Context, code, field string) (*models.Referral, error) {
	id, err := s.referralIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	err = incrementScript.Run(ctx, s.rdb, []string{s.key("referral", id)}, field).Err()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("Referral")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return s.getReferral(ctx, id)
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	z := redis.Z{Score: score(t.CreatedAt), Member: t.ID}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key("task", t.ID), map[string]interface{}{
			"id":          t.ID,
			"campaign_id": t.CampaignID,
			"description": t.Description,
			"completed":   strconv.FormatBool(t.Completed),
			"user_id":     t.UserID,
			"created_at":  t.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, s.key("tasks"), z)
		pipe.ZAdd(ctx, s.key("user", t.UserID, "tasks"), z)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *Store) getTask(ctx context.Context, id string) (*models.Task, error) {
	f, err := s.rdb.HGetAll(ctx, s.key("task", id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if len(f) == 0 {
		return nil, domain.NewNotFoundError("Task")
	}
	completed, _ := strconv.ParseBool(f["completed"])
	created, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	return &models.Task{
		ID:          f["id"],
		CampaignID:  f["campaign_id"],
		Description: f["description"],
		Completed:   completed,
		UserID:      f["user_id"],
		CreatedAt:   created,
	}, nil
}

func (s *Store) listTasks(ctx context.Context, ids []string) ([]*models.Task, error) {
	out := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.getTask(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.key("tasks"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.listTasks(ctx, ids)
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	ids, err := s.rdb.ZRange(ctx, s.key("user", userID, "tasks"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.listTasks(ctx, ids)
}

func (s *Store) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	key := s.key("task", id)
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check task: %w", err)
	}
	if exists == 0 {
		return nil, domain.NewNotFoundError("Task")
	}
	if err := s.rdb.HSet(ctx, key, "completed", "true").Err(); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return s.getTask(ctx, id)
}
