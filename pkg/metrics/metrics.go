package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Every instance owns its registry so
// several can coexist in one process (tests, multiple servers).
// All Record methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	UsersRegistered     prometheus.Counter
	LoginAttempts       *prometheus.CounterVec
	CampaignsCreated    prometheus.Counter
	ReferralsCreated    prometheus.Counter
	ReferralClicks      prometheus.Counter
	ReferralConversions prometheus.Counter
	ChatbotReplies      *prometheus.CounterVec
	ExportsCreated      prometheus.Counter

	// Store metrics
	StoreOperationDuration *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),

		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users registered",
		}),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failed
		),
		CampaignsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "campaigns_created_total",
			Help: "Total number of campaigns created",
		}),
		ReferralsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "referrals_created_total",
			Help: "Total number of referral codes issued",
		}),
		ReferralClicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_clicks_total",
			Help: "Total number of tracked referral clicks",
		}),
		ReferralConversions: factory.NewCounter(prometheus.CounterOpts{
			Name: "referral_conversions_total",
			Help: "Total number of tracked referral conversions",
		}),
		ChatbotReplies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_replies_total",
				Help: "Total number of chatbot replies by matched intent",
			},
			[]string{"intent"},
		),
		ExportsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "exports_created_total",
			Help: "Total number of analytics exports created",
		}),

		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Store operation duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"operation"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				// let echo write the error so the recorded status is final
				c.Error(err)
			}

			path := c.Path() // route pattern, e.g. /api/referrals/click/:code
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			duration := time.Since(start).Seconds()

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(duration)
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return nil
		}
	}
}

// RecordUserRegistered increments users registered counter
func (m *Metrics) RecordUserRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// RecordLoginAttempt increments login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordCampaignCreated() {
	if m == nil {
		return
	}
	m.CampaignsCreated.Inc()
}

func (m *Metrics) RecordReferralCreated() {
	if m == nil {
		return
	}
	m.ReferralsCreated.Inc()
}

func (m *Metrics) RecordClick() {
	if m == nil {
		return
	}
	m.ReferralClicks.Inc()
}

func (m *Metrics) RecordConversion() {
	if m == nil {
		return
	}
	m.ReferralConversions.Inc()
}

func (m *Metrics) RecordChatbotReply(intent string) {
	if m == nil {
		return
	}
	m.ChatbotReplies.WithLabelValues(intent).Inc()
}

// RecordExportCreated increments exports created counter
func (m *Metrics) RecordExportCreated() {
	if m == nil {
		return
	}
	m.ExportsCreated.Inc()
}

// RecordStoreOperation records store operation duration
func (m *Metrics) RecordStoreOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
