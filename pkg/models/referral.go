package models

import "time"

// Referral is a shareable code tied to one campaign and one referrer.
// Clicks and Conversions only ever grow; Conversions <= Clicks is not enforced.
type Referral struct {
	ID          string    `json:"id" sql:"id"`
	CampaignID  string    `json:"campaignId" sql:"campaign_id"`
	ReferrerID  string    `json:"referrerId" sql:"referrer_id"`
	Code        string    `json:"code" sql:"code"`
	Clicks      int64     `json:"clicks" sql:"clicks"`
	Conversions int64     `json:"conversions" sql:"conversions"`
	CreatedAt   time.Time `json:"createdAt" sql:"created_at"`
}

// CreateReferralRequest represents a referral creation request. An empty code
// asks the server to generate one.
type CreateReferralRequest struct {
	CampaignID string `json:"campaignId" validate:"required"`
	ReferrerID string `json:"referrerId"`
	Code       string `json:"code" validate:"omitempty,min=4,max=32,alphanum"`
}
