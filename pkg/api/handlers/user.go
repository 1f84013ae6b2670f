package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/account"
	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// UserHandler serves the user directory
type UserHandler struct {
	accounts  *account.Service
	logger    logger.Logger
	validator *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(accounts *account.Service, log logger.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: log, validator: newValidator()}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} models.Account
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.accounts.List(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	acc, err := h.accounts.Get(ctx, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, acc)
}

// Create godoc
// @Summary Create a user profile
// @Description Adds a directory entry without login credentials
// @Tags Users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Profile"
// @Success 201 {object} models.Account
// @Failure 400 {object} models.ErrorResponse "Invalid request or user already exists"
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	acc, err := h.accounts.CreateProfile(ctx, req)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusCreated, acc)
}
