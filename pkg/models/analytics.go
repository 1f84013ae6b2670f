package models

// AnalyticsSummary aggregates counters over a set of referrals
type AnalyticsSummary struct {
	TotalClicks      int64   `json:"totalClicks"`
	TotalConversions int64   `json:"totalConversions"`
	ConversionRate   float64 `json:"conversionRate"`
}

// CampaignSummary is the per-campaign row of the dashboard
type CampaignSummary struct {
	CampaignID    string `json:"campaignId"`
	Title         string `json:"title"`
	Active        bool   `json:"active"`
	ReferralCount int    `json:"referralCount"`
	AnalyticsSummary
}
