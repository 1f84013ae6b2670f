package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/referralhub/pkg/account"
	"github.com/jordanlanch/referralhub/pkg/analytics"
	"github.com/jordanlanch/referralhub/pkg/campaign"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/referral"
	"github.com/jordanlanch/referralhub/pkg/store/memory"
	"github.com/jordanlanch/referralhub/pkg/task"
)

func setupSeeder(t *testing.T, cfg Config) (*Seeder, *memory.Store) {
	t.Helper()
	store := memory.New()
	log := logger.Nop()

	services := Services{
		Accounts: account.NewService(store, nil, nil,
			account.TokenConfig{Secret: "test-secret-key-minimum-32-characters-long"}, nil, log),
		Campaigns: campaign.NewService(store, nil, log),
		Referrals: referral.NewService(store, store, nil, log),
		Tasks:     task.NewService(store, log),
	}
	return New(services, cfg), store
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	s, store := setupSeeder(t, Config{
		Accounts:             2,
		CampaignsPerAccount:  2,
		ReferralsPerCampaign: 3,
		TasksPerCampaign:     1,
		MaxClicks:            10,
		ConversionChance:     0.5,
		Seed:                 42,
	})

	res, err := s.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Accounts)
	assert.Equal(t, 4, res.Campaigns)
	assert.Equal(t, 12, res.Referrals)
	assert.Equal(t, 4, res.Tasks)
	assert.LessOrEqual(t, res.Conversions, res.Clicks)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	campaigns, err := store.ListCampaigns(ctx)
	require.NoError(t, err)
	for _, c := range campaigns {
		assert.False(t, c.EndDate.Before(c.StartDate))
		assert.NotEmpty(t, c.Title)
	}

	sum, err := analytics.NewService(store, store).Summarize(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(res.Clicks), sum.TotalClicks)
	assert.Equal(t, int64(res.Conversions), sum.TotalConversions)
}

func TestSeeder_AccountsCanLogIn(t *testing.T) {
	ctx := context.Background()
	s, store := setupSeeder(t, Config{Accounts: 1, CampaignsPerAccount: 1, ReferralsPerCampaign: 1, Seed: 7})

	_, err := s.Run(ctx)
	require.NoError(t, err)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	resp, err := s.services.Accounts.Login(ctx, models.LoginRequest{Email: accounts[0].Email, Password: DemoPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestNew_AppliesDefaults(t *testing.T) {
	s, _ := setupSeeder(t, Config{ConversionChance: 2})

	assert.Equal(t, DefaultConfig().Accounts, s.config.Accounts)
	assert.Equal(t, DefaultConfig().ConversionChance, s.config.ConversionChance)
}
