// Package seed fills a store with demo accounts, campaigns and referral
// traffic for local development.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jordanlanch/referralhub/pkg/account"
	"github.com/jordanlanch/referralhub/pkg/campaign"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/referral"
	"github.com/jordanlanch/referralhub/pkg/task"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// Config configures how much data is generated
type Config struct {
	Accounts             int
	CampaignsPerAccount  int
	ReferralsPerCampaign int
	TasksPerCampaign     int
	MaxClicks            int
	ConversionChance     float64 // 0.0-1.0 per click
	Seed                 int64   // 0 picks a random seed
}

// DefaultConfig returns a small but realistic data set
func DefaultConfig() Config {
	return Config{
		Accounts:             5,
		CampaignsPerAccount:  2,
		ReferralsPerCampaign: 3,
		TasksPerCampaign:     2,
		MaxClicks:            40,
		ConversionChance:     0.25,
	}
}

// Result counts what a run created
type Result struct {
	Accounts    int
	Campaigns   int
	Referrals   int
	Tasks       int
	Clicks      int
	Conversions int
}

// Services are the write paths used for seeding
type Services struct {
	Accounts  *account.Service
	Campaigns *campaign.Service
	Referrals *referral.Service
	Tasks     *task.Service
}

var campaignKinds = []string{
	"Friends & Family", "Spring Referral", "Refer a Colleague", "VIP Invite",
	"Bring a Buddy", "Holiday Bonus", "Early Access", "Community Drive",
}

var rewards = []string{
	"$10 credit", "$25 gift card", "1 month free", "20% off next order",
	"Free upgrade", "$50 account credit",
}

var taskTemplates = []string{
	"Share your link on %s",
	"Invite 3 friends via %s",
	"Post about the campaign on %s",
}

var channels = []string{"email", "Twitter", "LinkedIn", "WhatsApp", "Instagram"}

// Seeder generates demo data through the application services
type Seeder struct {
	services Services
	config   Config
	faker    *gofakeit.Faker
	now      func() time.Time
}

// New creates a seeder. Zero-valued config fields keep their defaults.
func New(services Services, config Config) *Seeder {
	defaults := DefaultConfig()
	if config.Accounts <= 0 {
		config.Accounts = defaults.Accounts
	}
	if config.CampaignsPerAccount <= 0 {
		config.CampaignsPerAccount = defaults.CampaignsPerAccount
	}
	if config.ReferralsPerCampaign <= 0 {
		config.ReferralsPerCampaign = defaults.ReferralsPerCampaign
	}
	if config.TasksPerCampaign < 0 {
		config.TasksPerCampaign = 0
	}
	if config.MaxClicks < 0 {
		config.MaxClicks = 0
	}
	if config.ConversionChance < 0 || config.ConversionChance > 1 {
		config.ConversionChance = defaults.ConversionChance
	}

	return &Seeder{
		services: services,
		config:   config,
		faker:    gofakeit.New(config.Seed),
		now:      time.Now,
	}
}

// GenerateCampaignTitle returns a campaign name such as "Synergy Spring Referral"
func (s *Seeder) GenerateCampaignTitle() string {
	kind := campaignKinds[s.faker.Number(0, len(campaignKinds)-1)]
	return fmt.Sprintf("%s %s", cases.Title(language.English).String(s.faker.BuzzWord()), kind)
}

// Run creates the configured data set
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	for i := 0; i < s.config.Accounts; i++ {
		acc, err := s.services.Accounts.Register(ctx, models.RegisterRequest{
			Name:     s.faker.Name(),
			Email:    fmt.Sprintf("%s.%d@example.com", strings.ToLower(s.faker.Username()), i),
			Password: DemoPassword,
		})
		if err != nil {
			return res, fmt.Errorf("seeding account %d: %w", i, err)
		}
		res.Accounts++

		for j := 0; j < s.config.CampaignsPerAccount; j++ {
			if err := s.seedCampaign(ctx, acc.User.ID, &res); err != nil {
				return res, err
			}
		}
	}

	return res, nil
}

func (s *Seeder) seedCampaign(ctx context.Context, ownerID string, res *Result) error {
	start := s.now().UTC().AddDate(0, 0, -s.faker.Number(0, 30)).Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, s.faker.Number(14, 90))

	c, err := s.services.Campaigns.Create(ctx, models.CreateCampaignRequest{
		Title:       s.GenerateCampaignTitle(),
		Description: s.faker.Sentence(12),
		Reward:      rewards[s.faker.Number(0, len(rewards)-1)],
		StartDate:   start,
		EndDate:     end,
		Active:      s.faker.Number(0, 9) > 1,
		CreatedBy:   ownerID,
	})
	if err != nil {
		return fmt.Errorf("seeding campaign: %w", err)
	}
	res.Campaigns++

	for k := 0; k < s.config.ReferralsPerCampaign; k++ {
		r, err := s.services.Referrals.CreateReferral(ctx, c.ID, ownerID, "")
		if err != nil {
			return fmt.Errorf("seeding referral: %w", err)
		}
		res.Referrals++

		clicks := 0
		if s.config.MaxClicks > 0 {
			clicks = s.faker.Number(0, s.config.MaxClicks)
		}
		for n := 0; n < clicks; n++ {
			if _, err := s.services.Referrals.RecordClick(ctx, r.Code); err != nil {
				return fmt.Errorf("seeding click: %w", err)
			}
			res.Clicks++

			if s.faker.Float64Range(0, 1) < s.config.ConversionChance {
				if _, err := s.services.Referrals.RecordConversion(ctx, r.Code); err != nil {
					return fmt.Errorf("seeding conversion: %w", err)
				}
				res.Conversions++
			}
		}
	}

	for k := 0; k < s.config.TasksPerCampaign; k++ {
		tmpl := taskTemplates[s.faker.Number(0, len(taskTemplates)-1)]
		t, err := s.services.Tasks.Create(ctx, models.CreateTaskRequest{
			CampaignID:  c.ID,
			Description: fmt.Sprintf(tmpl, channels[s.faker.Number(0, len(channels)-1)]),
			UserID:      ownerID,
		})
		if err != nil {
			return fmt.Errorf("seeding task: %w", err)
		}
		res.Tasks++

		if s.faker.Bool() {
			if _, err := s.services.Tasks.Complete(ctx, t.ID); err != nil {
				return fmt.Errorf("completing task: %w", err)
			}
		}
	}

	return nil
}
