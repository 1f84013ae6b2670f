// Package storetest holds behaviour checks shared by every domain.Store
// implementation.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// Factory builds a fresh, empty store for one subtest
type Factory func(t *testing.T) domain.Store

// Run exercises the full repository contract against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("Campaigns", func(t *testing.T) { testCampaigns(t, newStore(t)) })
	t.Run("Referrals", func(t *testing.T) { testReferrals(t, newStore(t)) })
	t.Run("ConcurrentClicks", func(t *testing.T) { testConcurrentClicks(t, newStore(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newCampaign(title string, created time.Time) *models.Campaign {
	return &models.Campaign{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "Refer friends",
		Reward:      "$10 off",
		StartDate:   base,
		EndDate:     base.AddDate(0, 3, 0),
		Active:      true,
		CreatedBy:   "user-1",
		CreatedAt:   created,
	}
}

func newReferral(campaignID, code string, created time.Time) *models.Referral {
	return &models.Referral{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		ReferrerID: "user-1",
		Code:       code,
		CreatedAt:  created,
	}
}

func testAccounts(t *testing.T, s domain.Store) {
	ctx := context.Background()

	a := &models.Account{
		ID:           uuid.NewString(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Phone:        "+14155552671",
		CreatedAt:    base,
	}
	require.NoError(t, s.CreateAccount(ctx, a))

	got, err := s.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, a.Phone, got.Phone)

	byEmail, err := s.GetAccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byEmail.ID)

	dup := &models.Account{ID: uuid.NewString(), Name: "Other", Email: a.Email, CreatedAt: base}
	err = s.CreateAccount(ctx, dup)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "duplicate email should conflict, got %v", err)

	_, err = s.GetAccount(ctx, dup.ID)
	assert.True(t, domain.IsNotFound(err))

	_, err = s.GetAccountByEmail(ctx, "nobody@example.com")
	assert.True(t, domain.IsNotFound(err))

	b := &models.Account{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", IsReferred: true, ReferredBy: a.ID, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateAccount(ctx, b))

	all, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.True(t, all[0].IsReferred)
	assert.Equal(t, a.ID, all[0].ReferredBy)
}

func testCampaigns(t *testing.T, s domain.Store) {
	ctx := context.Background()

	older := newCampaign("Summer Promotion", base)
	newer := newCampaign("New User Bonus", base.Add(time.Hour))
	require.NoError(t, s.CreateCampaign(ctx, older))
	require.NoError(t, s.CreateCampaign(ctx, newer))

	got, err := s.GetCampaign(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Promotion", got.Title)
	assert.True(t, got.StartDate.Equal(older.StartDate))
	assert.True(t, got.EndDate.Equal(older.EndDate))

	list, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	got.Active = false
	got.Reward = "$20 off"
	require.NoError(t, s.UpdateCampaign(ctx, got))

	updated, err := s.GetCampaign(ctx, older.ID)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "$20 off", updated.Reward)
	assert.Equal(t, "Summer Promotion", updated.Title)

	_, err = s.GetCampaign(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))

	err = s.UpdateCampaign(ctx, newCampaign("ghost", base))
	assert.True(t, domain.IsNotFound(err))
}

func testReferrals(t *testing.T, s domain.Store) {
	ctx := context.Background()

	c1 := newCampaign("C1", base)
	c2 := newCampaign("C2", base)
	require.NoError(t, s.CreateCampaign(ctx, c1))
	require.NoError(t, s.CreateCampaign(ctx, c2))

	r1 := newReferral(c1.ID, "ABC123", base)
	r2 := newReferral(c1.ID, "XYZ789", base.Add(time.Minute))
	r3 := newReferral(c2.ID, "OTHER1", base.Add(2*time.Minute))
	for _, r := range []*models.Referral{r1, r2, r3} {
		require.NoError(t, s.CreateReferral(ctx, r))
	}

	for i := 0; i < 3; i++ {
		_, err := s.IncrementClicks(ctx, "ABC123")
		require.NoError(t, err)
	}
	updated, err := s.IncrementConversions(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Clicks)
	assert.Equal(t, int64(1), updated.Conversions)

	err = s.CreateReferral(ctx, newReferral(c2.ID, "ABC123", base))
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "duplicate code should conflict, got %v", err)

	kept, err := s.GetReferralByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, r1.ID, kept.ID)
	assert.Equal(t, c1.ID, kept.CampaignID)
	assert.Equal(t, int64(3), kept.Clicks)
	assert.Equal(t, int64(1), kept.Conversions)

	_, err = s.IncrementClicks(ctx, "NOPE")
	assert.True(t, domain.IsNotFound(err))
	_, err = s.IncrementConversions(ctx, "NOPE")
	assert.True(t, domain.IsNotFound(err))
	_, err = s.GetReferralByCode(ctx, "NOPE")
	assert.True(t, domain.IsNotFound(err))

	byCampaign, err := s.ListReferralsByCampaign(ctx, c1.ID)
	require.NoError(t, err)
	codes := make([]string, 0, len(byCampaign))
	for _, r := range byCampaign {
		codes = append(codes, r.Code)
	}
	assert.ElementsMatch(t, []string{"ABC123", "XYZ789"}, codes)

	all, err := s.ListReferrals(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "OTHER1", all[0].Code)

	empty, err := s.ListReferralsByCampaign(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testConcurrentClicks(t *testing.T, s domain.Store) {
	ctx := context.Background()

	c := newCampaign("Race", base)
	require.NoError(t, s.CreateCampaign(ctx, c))
	require.NoError(t, s.CreateReferral(ctx, newReferral(c.ID, "RACE01", base)))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.IncrementClicks(ctx, "RACE01")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	r, err := s.GetReferralByCode(ctx, "RACE01")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), r.Clicks)
}

func testTasks(t *testing.T, s domain.Store) {
	ctx := context.Background()

	t1 := &models.Task{ID: uuid.NewString(), CampaignID: "c1", Description: "Sign up", UserID: "u1", CreatedAt: base}
	t2 := &models.Task{ID: uuid.NewString(), CampaignID: "c1", Description: "Share", UserID: "u2", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateTask(ctx, t1))
	require.NoError(t, s.CreateTask(ctx, t2))

	all, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, t2.ID, all[0].ID)

	mine, err := s.ListTasksByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].Completed)

	done, err := s.CompleteTask(ctx, t1.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "Sign up", done.Description)

	_, err = s.CompleteTask(ctx, "missing")
	assert.True(t, domain.IsNotFound(err))
}
