package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the API handlers
type Handlers struct {
	Auth      *AuthHandler
	Campaigns *CampaignHandler
	Referrals *ReferralHandler
	Tasks     *TaskHandler
	Users     *UserHandler
	Analytics *AnalyticsHandler
	Chatbot   *ChatbotHandler
}

// RegisterRoutes mounts every endpoint under api. requireAuth guards
// account-scoped routes; trackingLimit throttles the public click and
// conversion endpoints.
func RegisterRoutes(api *echo.Group, h Handlers, requireAuth, trackingLimit echo.MiddlewareFunc) {
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/me", h.Auth.Me, requireAuth)
	authGroup.POST("/logout", h.Auth.Logout, requireAuth)

	campaigns := api.Group("/campaigns")
	campaigns.GET("", h.Campaigns.List)
	campaigns.GET("/:id", h.Campaigns.Get)
	campaigns.POST("", h.Campaigns.Create, requireAuth)
	campaigns.PUT("/:id", h.Campaigns.Update, requireAuth)

	referrals := api.Group("/referrals")
	referrals.GET("", h.Referrals.List)
	referrals.GET("/campaign/:campaignId", h.Referrals.ListByCampaign)
	referrals.GET("/code/:code", h.Referrals.GetByCode)
	referrals.POST("", h.Referrals.Create, requireAuth)
	referrals.PUT("/click/:code", h.Referrals.Click, trackingLimit)
	referrals.PUT("/convert/:code", h.Referrals.Convert, trackingLimit)

	tasks := api.Group("/tasks")
	tasks.GET("", h.Tasks.List)
	tasks.GET("/user/:userId", h.Tasks.ListByUser)
	tasks.POST("", h.Tasks.Create)
	tasks.PUT("/complete/:id", h.Tasks.Complete)

	users := api.Group("/users")
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.POST("", h.Users.Create)

	analyticsGroup := api.Group("/analytics", requireAuth)
	analyticsGroup.GET("", h.Analytics.Summary)
	analyticsGroup.GET("/campaigns", h.Analytics.Campaigns)
	analyticsGroup.GET("/cohorts", h.Analytics.Cohorts)
	analyticsGroup.GET("/export", h.Analytics.Export)

	chat := api.Group("/chatbot")
	chat.GET("/welcome", h.Chatbot.Welcome)
	chat.POST("/respond", h.Chatbot.Respond)
}
