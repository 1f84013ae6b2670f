package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jordanlanch/referralhub/pkg/models"
)

const (
	// ExpiredCampaignsSchedule runs the expired campaign report daily at 6 AM
	ExpiredCampaignsSchedule = "0 6 * * *"
	// StatsSchedule logs ledger totals daily at 4 AM
	StatsSchedule = "0 4 * * *"
)

// ExpiredCampaignLister finds campaigns past their end date that are still active
type ExpiredCampaignLister interface {
	ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Campaign, error)
}

// SummarySource aggregates the referral ledger
type SummarySource interface {
	Summarize(ctx context.Context, campaignID string) (models.AnalyticsSummary, error)
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron      *cron.Cron
	campaigns ExpiredCampaignLister
	analytics SummarySource
	logger    *log.Logger
	now       func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(campaigns ExpiredCampaignLister, analytics SummarySource, logger *log.Logger) *CronManager {
	if logger == nil {
		logger = log.Default()
	}

	return &CronManager{
		cron:      cron.New(),
		campaigns: campaigns,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// SetupJobs configures all scheduled jobs
func (cm *CronManager) SetupJobs() error {
	cm.logger.Println("Setting up cron jobs...")

	if _, err := cm.cron.AddFunc(ExpiredCampaignsSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cm.ReportExpiredCampaigns(ctx)
	}); err != nil {
		return err
	}

	if _, err := cm.cron.AddFunc(StatsSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cm.LogLedgerStats(ctx)
	}); err != nil {
		return err
	}

	cm.logger.Printf("✅ %d cron jobs scheduled", len(cm.cron.Entries()))
	return nil
}

// ReportExpiredCampaigns logs campaigns that ended but are still flagged
// active. Campaigns are not modified. Returns how many were found.
func (cm *CronManager) ReportExpiredCampaigns(ctx context.Context) int {
	cm.logger.Println("🕐 Checking for expired campaigns...")

	expired, err := cm.campaigns.ListExpiredActive(ctx, cm.now())
	if err != nil {
		cm.logger.Printf("❌ Failed to list expired campaigns: %v", err)
		return 0
	}

	if len(expired) == 0 {
		cm.logger.Println("✅ No expired active campaigns")
		return 0
	}

	cm.logger.Printf("⚠️ %d campaigns are past their end date but still active", len(expired))
	for _, c := range expired {
		cm.logger.Printf("  %s %q ended %s", c.ID, c.Title, c.EndDate.Format(time.DateOnly))
	}
	return len(expired)
}

// LogLedgerStats logs the totals across all referrals
func (cm *CronManager) LogLedgerStats(ctx context.Context) {
	sum, err := cm.analytics.Summarize(ctx, "")
	if err != nil {
		cm.logger.Printf("❌ Failed to summarize referrals: %v", err)
		return
	}

	cm.logger.Printf("📊 Referral totals: clicks=%d conversions=%d rate=%.2f%%",
		sum.TotalClicks, sum.TotalConversions, sum.ConversionRate)
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.cron.Start()
	cm.logger.Println("✅ Cron scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs
func (cm *CronManager) Stop() context.Context {
	cm.logger.Println("Stopping cron scheduler...")
	return cm.cron.Stop()
}
