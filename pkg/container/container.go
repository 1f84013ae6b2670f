package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jordanlanch/referralhub/config"
	"github.com/jordanlanch/referralhub/pkg/account"
	"github.com/jordanlanch/referralhub/pkg/analytics"
	"github.com/jordanlanch/referralhub/pkg/api/handlers"
	"github.com/jordanlanch/referralhub/pkg/auth"
	"github.com/jordanlanch/referralhub/pkg/cache"
	"github.com/jordanlanch/referralhub/pkg/campaign"
	"github.com/jordanlanch/referralhub/pkg/chatbot"
	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/export"
	"github.com/jordanlanch/referralhub/pkg/jobs"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/metrics"
	"github.com/jordanlanch/referralhub/pkg/phone"
	"github.com/jordanlanch/referralhub/pkg/referral"
	"github.com/jordanlanch/referralhub/pkg/store/memory"
	"github.com/jordanlanch/referralhub/pkg/store/redisstore"
	"github.com/jordanlanch/referralhub/pkg/store/sqlstore"
	"github.com/jordanlanch/referralhub/pkg/task"
)

const storeOpenTimeout = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Infrastructure
	Store   domain.Store
	Cache   *cache.Client
	Revoker domain.TokenRevoker

	// Services
	AccountService   *account.Service
	CampaignService  *campaign.Service
	ReferralService  *referral.Service
	AnalyticsService *analytics.Service
	TaskService      *task.Service
	ExportService    *export.Service
	Chatbot          *chatbot.Responder

	// Jobs
	CronManager *jobs.CronManager

	// Handlers
	Handlers handlers.Handlers

	ownsCache bool
}

// New creates and initializes all application dependencies
func New(cfg *config.Config) (*Container, error) {
	return NewWithLogger(cfg, logger.New(cfg.LogLevel))
}

// NewWithLogger is New with an explicit logger
func NewWithLogger(cfg *config.Config, log logger.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initServices()
	c.initHandlers()

	c.Logger.Info("Container initialized successfully",
		"environment", cfg.APIEnvironment,
		"store", cfg.StoreDriver,
		"token_blacklist", c.revokerKind())

	return c, nil
}

// initInfrastructure opens the store and the token blacklist backend
func (c *Container) initInfrastructure() error {
	if c.Config.RedisURL != "" {
		client, err := cache.NewClient(c.Config.RedisURL)
		if err != nil {
			c.Logger.Error("Failed to connect to cache", "error", err)
			return err
		}
		c.Cache = client
		c.ownsCache = true
	}

	store, err := c.openStore()
	if err != nil {
		c.Logger.Error("Failed to open store", "driver", c.Config.StoreDriver, "error", err)
		if c.Cache != nil {
			c.Cache.Close()
		}
		return err
	}
	c.Store = store

	if c.Cache != nil {
		c.Revoker = auth.NewTokenBlacklist(c.Cache)
	} else {
		c.Revoker = auth.NewMemoryBlacklist()
	}

	c.Logger.Info("Infrastructure initialized",
		"store", c.Config.StoreDriver,
		"cache", c.Cache != nil)

	return nil
}

func (c *Container) openStore() (domain.Store, error) {
	switch c.Config.StoreDriver {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreRedis:
		// The redis store closes the shared client itself.
		c.ownsCache = false
		return redisstore.New(c.Cache, ""), nil
	case config.StorePostgres, config.StoreSQLite:
		ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
		defer cancel()
		driver := c.Config.StoreDriver
		if driver == config.StoreSQLite {
			driver = "sqlite3"
		}
		return sqlstore.Open(ctx, driver, c.Config.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Config.StoreDriver)
	}
}

// initServices initializes all domain services
func (c *Container) initServices() {
	tokens := account.TokenConfig{
		Secret:          c.Config.JWTSecret,
		ExpirationHours: c.Config.JWTExpirationHours,
	}

	c.AccountService = account.NewService(c.Store, c.Revoker,
		phone.NewNormalizer(c.Config.DefaultPhoneRegion), tokens, c.Metrics, c.Logger.With("service", "account"))
	c.CampaignService = campaign.NewService(c.Store, c.Metrics, c.Logger.With("service", "campaign"))
	c.ReferralService = referral.NewService(c.Store, c.Store, c.Metrics, c.Logger.With("service", "referral"))
	c.AnalyticsService = analytics.NewService(c.Store, c.Store)
	c.TaskService = task.NewService(c.Store, c.Logger.With("service", "task"))
	c.ExportService = export.NewService(c.AnalyticsService, c.Metrics)
	c.Chatbot = chatbot.New(c.Metrics)

	c.CronManager = jobs.NewCronManager(c.CampaignService, c.AnalyticsService, log.Default())

	c.Logger.Info("Services initialized")
}

// initHandlers initializes all HTTP handlers
func (c *Container) initHandlers() {
	c.Handlers = handlers.Handlers{
		Auth:      handlers.NewAuthHandler(c.AccountService, c.Logger),
		Campaigns: handlers.NewCampaignHandler(c.CampaignService, c.Logger),
		Referrals: handlers.NewReferralHandler(c.ReferralService, c.Logger),
		Tasks:     handlers.NewTaskHandler(c.TaskService, c.Logger),
		Users:     handlers.NewUserHandler(c.AccountService, c.Logger),
		Analytics: handlers.NewAnalyticsHandler(c.AnalyticsService, c.ExportService, c.Logger),
		Chatbot:   handlers.NewChatbotHandler(c.Chatbot, c.Logger),
	}

	c.Logger.Info("Handlers initialized")
}

func (c *Container) revokerKind() string {
	if c.Cache != nil {
		return "redis"
	}
	return "memory"
}

// Close closes the store and the cache connection
func (c *Container) Close() error {
	c.Logger.Info("Shutting down container...")

	if err := c.Store.Close(); err != nil {
		c.Logger.Error("Failed to close store", "error", err)
		return err
	}

	if c.ownsCache && c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Error("Failed to close cache", "error", err)
			return err
		}
	}

	c.Logger.Info("Container shutdown complete")
	return nil
}
