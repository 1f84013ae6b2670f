package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jordanlanch/referralhub/config"
	"github.com/jordanlanch/referralhub/pkg/container"
	"github.com/jordanlanch/referralhub/pkg/seed"
)

func main() {
	defaults := seed.DefaultConfig()
	accounts := flag.Int("accounts", defaults.Accounts, "Number of accounts to create")
	campaigns := flag.Int("campaigns", defaults.CampaignsPerAccount, "Campaigns per account")
	referrals := flag.Int("referrals", defaults.ReferralsPerCampaign, "Referral links per campaign")
	tasks := flag.Int("tasks", defaults.TasksPerCampaign, "Tasks per campaign")
	maxClicks := flag.Int("max-clicks", defaults.MaxClicks, "Upper bound of simulated clicks per link")
	conversion := flag.Float64("conversion", defaults.ConversionChance, "Probability that a click converts (0-1)")
	seedValue := flag.Int64("seed", 0, "Random seed (0 = random)")
	flag.Parse()

	cfg := config.Load()
	cfg.CronEnabled = false
	if cfg.StoreDriver == config.StoreMemory {
		log.Printf("⚠️  STORE_DRIVER=memory: seeded data is discarded when this command exits")
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer c.Close()

	seeder := seed.New(seed.Services{
		Accounts:  c.AccountService,
		Campaigns: c.CampaignService,
		Referrals: c.ReferralService,
		Tasks:     c.TaskService,
	}, seed.Config{
		Accounts:             *accounts,
		CampaignsPerAccount:  *campaigns,
		ReferralsPerCampaign: *referrals,
		TasksPerCampaign:     *tasks,
		MaxClicks:            *maxClicks,
		ConversionChance:     *conversion,
		Seed:                 *seedValue,
	})

	fmt.Printf("🌱 Seeding %s store...\n", cfg.StoreDriver)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := seeder.Run(ctx)
	if err != nil {
		log.Printf("❌ Seeding stopped: %v", err)
	}

	fmt.Printf("✅ Completed in %s\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Accounts:    %4d (password: %s)\n", res.Accounts, seed.DemoPassword)
	fmt.Printf("Campaigns:   %4d\n", res.Campaigns)
	fmt.Printf("Referrals:   %4d\n", res.Referrals)
	fmt.Printf("Tasks:       %4d\n", res.Tasks)
	fmt.Printf("Clicks:      %4d\n", res.Clicks)
	fmt.Printf("Conversions: %4d\n", res.Conversions)
}
