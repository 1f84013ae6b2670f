package models

import "time"

// Campaign is a time-boxed referral promotion. Active is set by the caller and
// is never derived from StartDate/EndDate.
type Campaign struct {
	ID          string    `json:"id" sql:"id"`
	Title       string    `json:"title" sql:"title"`
	Description string    `json:"description" sql:"description"`
	Reward      string    `json:"reward" sql:"reward"`
	StartDate   time.Time `json:"startDate" sql:"start_date"`
	EndDate     time.Time `json:"endDate" sql:"end_date"`
	Active      bool      `json:"active" sql:"active"`
	CreatedBy   string    `json:"createdBy" sql:"created_by"`
	CreatedAt   time.Time `json:"createdAt" sql:"created_at"`
}

// Expired reports whether the campaign's end date lies before now.
func (c *Campaign) Expired(now time.Time) bool {
	return !c.EndDate.IsZero() && c.EndDate.Before(now)
}

// CreateCampaignRequest represents a campaign creation request
type CreateCampaignRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Reward      string    `json:"reward" validate:"required"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Active      bool      `json:"active"`
	CreatedBy   string    `json:"createdBy"`
}

// UpdateCampaignRequest carries a partial update; nil fields are left as-is.
type UpdateCampaignRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string    `json:"description,omitempty"`
	Reward      *string    `json:"reward,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

// Apply merges the non-nil fields into c.
func (r *UpdateCampaignRequest) Apply(c *Campaign) {
	if r.Title != nil {
		c.Title = *r.Title
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.Reward != nil {
		c.Reward = *r.Reward
	}
	if r.StartDate != nil {
		c.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		c.EndDate = *r.EndDate
	}
	if r.Active != nil {
		c.Active = *r.Active
	}
}
