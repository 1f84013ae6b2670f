// Package analytics aggregates referral counters into dashboard summaries.
// Results are always recomputed from the store.
package analytics

import (
	"context"
	"time"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// ConversionRate returns conversions as a percentage of clicks, 0 when
// there are no clicks. Values above 100 are possible since the counters move
// independently.
func ConversionRate(clicks, conversions int64) float64 {
	if clicks == 0 {
		return 0
	}
	return float64(conversions) / float64(clicks) * 100
}

// Aggregate folds referrals into a summary
func Aggregate(referrals []*models.Referral) models.AnalyticsSummary {
	var sum models.AnalyticsSummary
	for _, r := range referrals {
		sum.TotalClicks += r.Clicks
		sum.TotalConversions += r.Conversions
	}
	sum.ConversionRate = ConversionRate(sum.TotalClicks, sum.TotalConversions)
	return sum
}

// Service computes summaries over the referral ledger
type Service struct {
	referrals domain.ReferralRepository
	campaigns domain.CampaignRepository
	now       func() time.Time
}

// NewService creates a new analytics service
func NewService(referrals domain.ReferralRepository, campaigns domain.CampaignRepository) *Service {
	return &Service{referrals: referrals, campaigns: campaigns, now: time.Now}
}

// Summarize aggregates one campaign's referrals, or all referrals when
// campaignID is empty. A campaign without referrals yields zeros.
func (s *Service) Summarize(ctx context.Context, campaignID string) (models.AnalyticsSummary, error) {
	var (
		referrals []*models.Referral
		err       error
	)
	if campaignID == "" {
		referrals, err = s.referrals.ListReferrals(ctx)
	} else {
		referrals, err = s.referrals.ListReferralsByCampaign(ctx, campaignID)
	}
	if err != nil {
		return models.AnalyticsSummary{}, err
	}
	return Aggregate(referrals), nil
}

// CampaignBreakdown returns one summary per campaign in registry order
func (s *Service) CampaignBreakdown(ctx context.Context) ([]models.CampaignSummary, error) {
	campaigns, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referrals.ListReferrals(ctx)
	if err != nil {
		return nil, err
	}

	byCampaign := make(map[string][]*models.Referral, len(campaigns))
	for _, r := range referrals {
		byCampaign[r.CampaignID] = append(byCampaign[r.CampaignID], r)
	}

	out := make([]models.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		rs := byCampaign[c.ID]
		out = append(out, models.CampaignSummary{
			CampaignID:       c.ID,
			Title:            c.Title,
			Active:           c.Active,
			ReferralCount:    len(rs),
			AnalyticsSummary: Aggregate(rs),
		})
	}
	return out, nil
}
