// Package memory is an in-process implementation of domain.Store. It is built
// once per process and handed to services, never reached through globals.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// Store keeps every collection in maps guarded by a single lock
type Store struct {
	mu sync.RWMutex

	accounts       map[string]*models.Account
	accountByEmail map[string]string
	campaigns      map[string]*models.Campaign
	referrals      map[string]*models.Referral
	referralByCode map[string]string
	tasks          map[string]*models.Task

	// insertion sequence, used to break CreatedAt ties
	seq   int64
	order map[string]int64
}

var _ domain.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		accounts:       make(map[string]*models.Account),
		accountByEmail: make(map[string]string),
		campaigns:      make(map[string]*models.Campaign),
		referrals:      make(map[string]*models.Referral),
		referralByCode: make(map[string]string),
		tasks:          make(map[string]*models.Task),
		order:          make(map[string]int64),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func (s *Store) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

// newestFirst sorts by CreatedAt descending, then by insertion order descending
func (s *Store) newestFirst(ids []string, created func(string) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := created(ids[i]), created(ids[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return s.order[ids[i]] > s.order[ids[j]]
	})
}

func (s *Store) oldestFirst(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.order[ids[i]] < s.order[ids[j]]
	})
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accountByEmail[a.Email]; taken {
		return domain.NewConflictError("User already exists")
	}
	cp := *a
	s.accounts[a.ID] = &cp
	s.accountByEmail[a.Email] = a.ID
	s.track(a.ID)
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.NewNotFoundError("User")
	}
	cp := *a
	return &cp, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.accountByEmail[email]
	if !ok {
		return nil, domain.NewNotFoundError("User")
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.newestFirst(ids, func(id string) time.Time { return s.accounts[id].CreatedAt })

	out := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		cp := *s.accounts[id]
		out = append(out, &cp)
	}
	return out, nil
}

// Campaigns

func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.campaigns[c.ID] = &cp
	s.track(c.ID)
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, domain.NewNotFoundError("Campaign")
	}
	cp := *c
	return &cp, nil
}

func (s *Store) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.campaigns[c.ID]; !ok {
		return domain.NewNotFoundError("Campaign")
	}
	cp := *c
	s.campaigns[c.ID] = &cp
	return nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.campaigns))
	for id := range s.campaigns {
		ids = append(ids, id)
	}
	s.newestFirst(ids, func(id string) time.Time { return s.campaigns[id].CreatedAt })

	out := make([]*models.Campaign, 0, len(ids))
	for _, id := range ids {
		cp := *s.campaigns[id]
		out = append(out, &cp)
	}
	return out, nil
}

// Referrals

func (s *Store) CreateReferral(ctx context.Context, r *models.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.referralByCode[r.Code]; taken {
		return domain.NewConflictError("Referral code already exists")
	}
	cp := *r
	s.referrals[r.ID] = &cp
	s.referralByCode[r.Code] = r.ID
	s.track(r.ID)
	return nil
}

func (s *Store) GetReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.referralByCode[code]
	if !ok {
		return nil, domain.NewNotFoundError("Referral")
	}
	cp := *s.referrals[id]
	return &cp, nil
}

func (s *Store) ListReferrals(ctx context.Context) ([]*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.referrals))
	for id := range s.referrals {
		ids = append(ids, id)
	}
	s.newestFirst(ids, func(id string) time.Time { return s.referrals[id].CreatedAt })
	return s.copyReferrals(ids), nil
}

func (s *Store) ListReferralsByCampaign(ctx context.Context, campaignID string) ([]*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, r := range s.referrals {
		if r.CampaignID == campaignID {
			ids = append(ids, id)
		}
	}
	s.oldestFirst(ids)
	return s.copyReferrals(ids), nil
}

func (s *Store) copyReferrals(ids []string) []*models.Referral {
	out := make([]*models.Referral, 0, len(ids))
	for _, id := range ids {
		cp := *s.referrals[id]
		out = append(out, &cp)
	}
	return out
}

func (s *Store) IncrementClicks(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(code, func(r *models.Referral) { r.Clicks++ })
}

func (s *Store) IncrementConversions(ctx context.Context, code string) (*models.Referral, error) {
	return s.increment(code, func(r *models.Referral) { r.Conversions++ })
}

func (s *Store) increment(code string, bump func(*models.Referral)) (*models.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.referralByCode[code]
	if !ok {
		return nil, domain.NewNotFoundError("Referral")
	}
	r := s.referrals[id]
	bump(r)
	cp := *r
	return &cp, nil
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.tasks[t.ID] = &cp
	s.track(t.ID)
	return nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.newestFirst(ids, func(id string) time.Time { return s.tasks[id].CreatedAt })
	return s.copyTasks(ids), nil
}

func (s *Store) ListTasksByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, t := range s.tasks {
		if t.UserID == userID {
			ids = append(ids, id)
		}
	}
	s.oldestFirst(ids)
	return s.copyTasks(ids), nil
}

func (s *Store) copyTasks(ids []string) []*models.Task {
	out := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		cp := *s.tasks[id]
		out = append(out, &cp)
	}
	return out
}

func (s *Store) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.NewNotFoundError("Task")
	}
	t.Completed = true
	cp := *t
	return &cp, nil
}
