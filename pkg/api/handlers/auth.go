package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/account"
	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/api/middleware"
	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	accounts  *account.Service
	logger    logger.Logger
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *account.Service, log logger.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: log, validator: newValidator()}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account and receive a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request or user already exists"
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.Register(ctx, req)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, resp)
}

// Login godoc
// @Summary Log in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.Login(ctx, req)
	if err != nil {
		if domain.IsUnauthorized(err) {
			return errors.InvalidCredentials(c)
		}
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	acc, err := h.accounts.Me(ctx, middleware.UserID(c))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, acc)
}

// Logout godoc
// @Summary Revoke the current token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.accounts.Logout(ctx, middleware.Token(c)); err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out"})
}
