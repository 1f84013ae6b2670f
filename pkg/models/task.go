package models

import "time"

// Task is an action a referred user completes for a campaign
type Task struct {
	ID          string    `json:"id" sql:"id"`
	CampaignID  string    `json:"campaignId" sql:"campaign_id"`
	Description string    `json:"description" sql:"description"`
	Completed   bool      `json:"completed" sql:"completed"`
	UserID      string    `json:"userId" sql:"user_id"`
	CreatedAt   time.Time `json:"createdAt" sql:"created_at"`
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	CampaignID  string `json:"campaignId" validate:"required"`
	Description string `json:"description" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
}
