// Package referral is the ledger of referral codes and their counters.
package referral

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/metrics"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// generated codes that collide are redrawn this many times
const maxCodeAttempts = 3

// Service handles referral operations
type Service struct {
	referrals domain.ReferralRepository
	campaigns domain.CampaignRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
	now       func() time.Time
}

// NewService creates a new referral service
func NewService(referrals domain.ReferralRepository, campaigns domain.CampaignRepository, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{referrals: referrals, campaigns: campaigns, metrics: m, logger: log, now: time.Now}
}

// CreateReferral issues a code for referrerID in campaignID with zero
// counters. An empty code is generated. A taken code is a conflict and the
// existing referral is left alone.
func (s *Service) CreateReferral(ctx context.Context, campaignID, referrerID, code string) (*models.Referral, error) {
	if _, err := s.campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	generate := code == ""

	for attempt := 1; ; attempt++ {
		if generate {
			var err error
			if code, err = GenerateCode(); err != nil {
				return nil, err
			}
		}

		r := &models.Referral{
			ID:         uuid.NewString(),
			CampaignID: campaignID,
			ReferrerID: referrerID,
			Code:       code,
			CreatedAt:  s.now().UTC(),
		}
		err := s.referrals.CreateReferral(ctx, r)
		if err == nil {
			s.metrics.RecordReferralCreated()
			s.logger.Info("referral created", "referral_id", r.ID, "campaign_id", campaignID, "code", code)
			return r, nil
		}
		if !generate || !domain.IsConflict(err) || attempt >= maxCodeAttempts {
			return nil, err
		}
		s.logger.Warn("generated referral code collided", "code", code, "attempt", attempt)
	}
}

// RecordClick adds one click to the referral with the given code
func (s *Service) RecordClick(ctx context.Context, code string) (*models.Referral, error) {
	start := time.Now()
	r, err := s.referrals.IncrementClicks(ctx, code)
	s.metrics.RecordStoreOperation("increment_clicks", time.Since(start))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordClick()
	return r, nil
}

// RecordConversion adds one conversion. Prior clicks are not required.
func (s *Service) RecordConversion(ctx context.Context, code string) (*models.Referral, error) {
	start := time.Now()
	r, err := s.referrals.IncrementConversions(ctx, code)
	s.metrics.RecordStoreOperation("increment_conversions", time.Since(start))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordConversion()
	return r, nil
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID string) ([]*models.Referral, error) {
	return s.referrals.ListReferralsByCampaign(ctx, campaignID)
}

// ListAll returns every referral, most recent first
func (s *Service) ListAll(ctx context.Context) ([]*models.Referral, error) {
	return s.referrals.ListReferrals(ctx)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*models.Referral, error) {
	return s.referrals.GetReferralByCode(ctx, code)
}
