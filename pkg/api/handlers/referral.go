package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/api/middleware"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/referral"
)

// ReferralHandler handles referral ledger endpoints
type ReferralHandler struct {
	referrals *referral.Service
	logger    logger.Logger
	validator *validator.Validate
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referrals *referral.Service, log logger.Logger) *ReferralHandler {
	return &ReferralHandler{referrals: referrals, logger: log, validator: newValidator()}
}

// List godoc
// @Summary List referrals
// @Description All referrals, most recent first
// @Tags Referrals
// @Produce json
// @Success 200 {array} models.Referral
// @Router /referrals [get]
func (h *ReferralHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.referrals.ListAll(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// ListByCampaign godoc
// @Summary List a campaign's referrals
// @Tags Referrals
// @Produce json
// @Param campaignId path string true "Campaign ID"
// @Success 200 {array} models.Referral
// @Router /referrals/campaign/{campaignId} [get]
func (h *ReferralHandler) ListByCampaign(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.referrals.ListByCampaign(ctx, c.Param("campaignId"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// GetByCode godoc
// @Summary Look up a referral code
// @Tags Referrals
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} models.Referral
// @Failure 404 {object} models.ErrorResponse
// @Router /referrals/code/{code} [get]
func (h *ReferralHandler) GetByCode(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.referrals.GetByCode(ctx, c.Param("code"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, r)
}

// Create godoc
// @Summary Create a referral
// @Description referrerId defaults to the authenticated user; an empty code is generated
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateReferralRequest true "Referral"
// @Success 201 {object} models.Referral
// @Failure 400 {object} models.ErrorResponse "Invalid request or code already exists"
// @Failure 404 {object} models.ErrorResponse "Campaign not found"
// @Router /referrals [post]
func (h *ReferralHandler) Create(c echo.Context) error {
	var req models.CreateReferralRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if req.ReferrerID == "" {
		req.ReferrerID = middleware.UserID(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.referrals.CreateReferral(ctx, req.CampaignID, req.ReferrerID, req.Code)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusCreated, r)
}

// Click godoc
// @Summary Record a click
// @Tags Referrals
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} models.Referral
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /referrals/click/{code} [put]
func (h *ReferralHandler) Click(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.referrals.RecordClick(ctx, c.Param("code"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, r)
}

// Convert godoc
// @Summary Record a conversion
// @Tags Referrals
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} models.Referral
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /referrals/convert/{code} [put]
func (h *ReferralHandler) Convert(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.referrals.RecordConversion(ctx, c.Param("code"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, r)
}
