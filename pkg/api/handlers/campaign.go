package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/api/middleware"
	"github.com/jordanlanch/referralhub/pkg/campaign"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// CampaignHandler handles campaign endpoints
type CampaignHandler struct {
	campaigns *campaign.Service
	logger    logger.Logger
	validator *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaigns *campaign.Service, log logger.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, logger: log, validator: newValidator()}
}

// List godoc
// @Summary List campaigns
// @Description All campaigns, newest first
// @Tags Campaigns
// @Produce json
// @Success 200 {array} models.Campaign
// @Router /campaigns [get]
func (h *CampaignHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.campaigns.ListAll(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// Get godoc
// @Summary Get a campaign
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} models.ErrorResponse
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	cmp, err := h.campaigns.Get(ctx, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, cmp)
}

// Create godoc
// @Summary Create a campaign
// @Description createdBy defaults to the authenticated user
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCampaignRequest true "Campaign"
// @Success 201 {object} models.Campaign
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	var req models.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if req.CreatedBy == "" {
		req.CreatedBy = middleware.UserID(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cmp, err := h.campaigns.Create(ctx, req)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusCreated, cmp)
}

// Update godoc
// @Summary Update a campaign
// @Description Only the fields present in the body are changed
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.UpdateCampaignRequest true "Fields to change"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} models.ErrorResponse
// @Router /campaigns/{id} [put]
func (h *CampaignHandler) Update(c echo.Context) error {
	var req models.UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	cmp, err := h.campaigns.Update(ctx, c.Param("id"), req)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, cmp)
}
