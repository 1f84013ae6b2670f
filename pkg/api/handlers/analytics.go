package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/analytics"
	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/export"
	"github.com/jordanlanch/referralhub/pkg/logger"
)

// AnalyticsHandler serves dashboard summaries
type AnalyticsHandler struct {
	analytics *analytics.Service
	exports   *export.Service
	logger    logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *analytics.Service, exports *export.Service, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exports: exports, logger: log}
}

// Summary godoc
// @Summary Click and conversion totals
// @Description Aggregates one campaign when campaignId is given, otherwise all referrals
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param campaignId query string false "Campaign ID"
// @Success 200 {object} models.AnalyticsSummary
// @Router /analytics [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	sum, err := h.analytics.Summarize(ctx, c.QueryParam("campaignId"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, sum)
}

// Campaigns godoc
// @Summary Per-campaign breakdown
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CampaignSummary
// @Router /analytics/campaigns [get]
func (h *AnalyticsHandler) Campaigns(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.analytics.CampaignBreakdown(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, rows)
}

// Cohorts godoc
// @Summary Referrals grouped by creation period
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "day, week or month" default(week)
// @Param count query int false "Number of periods" default(8)
// @Success 200 {array} analytics.Cohort
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics/cohorts [get]
func (h *AnalyticsHandler) Cohorts(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	period := c.QueryParam("period")
	if period == "" {
		period = analytics.PeriodWeek
	}
	count, _ := strconv.Atoi(c.QueryParam("count"))

	cohorts, err := h.analytics.GetCohorts(ctx, period, count)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(cohorts))
}

// Export godoc
// @Summary Download the campaign breakdown as XLSX
// @Tags Analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	data, err := h.exports.CampaignReport(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}

	filename := fmt.Sprintf("campaigns-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType, data)
}
