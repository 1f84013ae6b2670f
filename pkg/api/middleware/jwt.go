package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/models"
)

const (
	// ContextUserID is the echo.Context key holding the authenticated account ID
	ContextUserID = "user_id"
	// ContextToken is the echo.Context key holding the raw bearer token
	ContextToken = "token"
)

// Authenticator resolves a bearer token to an account ID
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// JWTMiddleware rejects requests without a valid bearer token
func JWTMiddleware(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "missing_token",
					Message: "No token, authorization denied",
				})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token_format",
					Message: "Authorization header must be 'Bearer {token}'",
				})
			}
			token := strings.TrimSpace(parts[1])

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token",
					Message: "Token is not valid",
				})
			}

			// kept for logout
			c.Set(ContextToken, token)
			c.Set(ContextUserID, userID)

			return next(c)
		}
	}
}

// UserID returns the authenticated account ID, or "" on public routes
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

// Token returns the bearer token of the current request
func Token(c echo.Context) string {
	token, _ := c.Get(ContextToken).(string)
	return token
}
