// Package campaign is the registry of referral campaigns.
package campaign

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

// Service handles campaign operations
type Service struct {
	campaigns domain.CampaignRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
	now       func() time.Time
}

// NewService creates a new campaign service
func NewService(campaigns domain.CampaignRepository, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{campaigns: campaigns, metrics: m, logger: log, now: time.Now}
}

// Create stores a new campaign. Active is taken from the request as-is.
func (s *Service) Create(ctx context.Context, req models.CreateCampaignRequest) (*models.Campaign, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, domain.NewValidationError("endDate must not be before startDate")
	}

	c := &models.Campaign{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Reward:      req.Reward,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Active:      req.Active,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.campaigns.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCampaignCreated()
	s.logger.Info("campaign created", "campaign_id", c.ID, "created_by", c.CreatedBy)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	return s.campaigns.GetCampaign(ctx, id)
}

// Update merges the non-nil request fields into the stored campaign
func (s *Service) Update(ctx context.Context, id string, req models.UpdateCampaignRequest) (*models.Campaign, error) {
	c, err := s.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(c)
	if c.EndDate.Before(c.StartDate) {
		return nil, domain.NewValidationError("endDate must not be before startDate")
	}

	if err := s.campaigns.UpdateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListAll returns every campaign, newest first
func (s *Service) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	return s.campaigns.ListCampaigns(ctx)
}

// ListExpiredActive returns campaigns still flagged active after their end
// date. It only reports; Active is left untouched.
func (s *Service) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	all, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	var expired []*models.Campaign
	for _, c := range all {
		if c.Active && c.Expired(now) {
			expired = append(expired, c)
		}
	}
	return expired, nil
}
