package main

import (
	"context"
	"log"
	"net/http"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jordanlanch/referralhub/docs"
	"github.com/jordanlanch/referralhub/pkg/api/handlers"
	custommw "github.com/jordanlanch/referralhub/pkg/api/middleware"
	"github.com/jordanlanch/referralhub/pkg/container"
	custommiddleware "github.com/jordanlanch/referralhub/pkg/middleware"
)

const version = "1.0.0"

// server is the HTTP surface built on top of a container
type server struct {
	echo     *echo.Echo
	limiters []*custommiddleware.RateLimiter
}

func newServer(c *container.Container) *server {
	cfg := c.Config

	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(ec echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(c.Metrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())

	securityHeaders := custommiddleware.DefaultSecurityHeadersConfig()
	securityHeaders.Skipper = custommiddleware.SkipPrefixes("/swagger/")
	if cfg.IsProduction() {
		securityHeaders.HSTSMaxAge = 31536000
	}
	e.Use(custommiddleware.SecurityHeaders(securityHeaders))

	// Public service endpoints
	e.GET("/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]any{
			"name":        "ReferralHub API",
			"version":     version,
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(ec echo.Context) error {
		ctx, cancel := context.WithTimeout(ec.Request().Context(), 2*time.Second)
		defer cancel()

		if err := c.Store.Ping(ctx); err != nil {
			return ec.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"store":  "down",
			})
		}

		return ec.JSON(http.StatusOK, map[string]any{
			"status": "healthy",
			"store":  "up",
			"driver": cfg.StoreDriver,
		})
	})

	e.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	trackingRateLimiter := custommiddleware.NewRateLimiter(cfg.TrackingRateLimitPerMinute, cfg.TrackingRateLimitPerMinute)

	api := e.Group("/api")
	api.Use(globalRateLimiter.RateLimitMiddleware())

	handlers.RegisterRoutes(api, c.Handlers,
		custommw.JWTMiddleware(c.AccountService),
		trackingRateLimiter.RateLimitMiddleware())

	return &server{
		echo:     e,
		limiters: []*custommiddleware.RateLimiter{globalRateLimiter, trackingRateLimiter},
	}
}

func (s *server) stopLimiters() {
	for _, l := range s.limiters {
		l.Stop()
	}
}
