package domain

import (
	"context"
	"time"

	"github.com/jordanlanch/referralhub/pkg/models"
)

// AccountRepository persists accounts. Email is a unique key: Create returns a
// conflict error when it is already taken.
type AccountRepository interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// CampaignRepository persists campaigns. ListCampaigns returns newest first.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, c *models.Campaign) error
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, c *models.Campaign) error
	ListCampaigns(ctx context.Context) ([]*models.Campaign, error)
}

// ReferralRepository persists referrals. Code is a unique key. The increment
// methods must be atomic in the backing store and return the updated record,
// or a not found error without creating anything.
type ReferralRepository interface {
	CreateReferral(ctx context.Context, r *models.Referral) error
	GetReferralByCode(ctx context.Context, code string) (*models.Referral, error)
	ListReferrals(ctx context.Context) ([]*models.Referral, error)
	ListReferralsByCampaign(ctx context.Context, campaignID string) ([]*models.Referral, error)
	IncrementClicks(ctx context.Context, code string) (*models.Referral, error)
	IncrementConversions(ctx context.Context, code string) (*models.Referral, error)
}

// TaskRepository persists campaign tasks
type TaskRepository interface {
	CreateTask(ctx context.Context, t *models.Task) error
	ListTasks(ctx context.Context) ([]*models.Task, error)
	ListTasksByUser(ctx context.Context, userID string) ([]*models.Task, error)
	CompleteTask(ctx context.Context, id string) (*models.Task, error)
}

// Store is the document store backing the whole application. One instance is
// built per process and shared by every service.
type Store interface {
	AccountRepository
	CampaignRepository
	ReferralRepository
	TaskRepository
	Ping(ctx context.Context) error
	Close() error
}

// TokenRevoker tracks logged-out tokens
type TokenRevoker interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
