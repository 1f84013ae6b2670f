// Package errors turns service errors into HTTP responses.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// Respond writes the response matching err's domain code. Unknown errors
// are logged, reported to Sentry and answered with a generic 500.
func Respond(c echo.Context, err error, log logger.Logger) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case domain.ErrCodeNotFound:
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: de.Message})
		case domain.ErrCodeConflict:
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "conflict", Message: de.Message})
		case domain.ErrCodeValidation:
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: de.Message})
		case domain.ErrCodeUnauthorized:
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Message: de.Message})
		}
	}
	return InternalError(c, err, log)
}

// ValidationError answers 400 for a request body that failed validation
func ValidationError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: validationMessage(err),
	})
}

// InvalidBody answers 400 for a body that could not be decoded
func InvalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

// validationMessage flattens validator errors into "field tag" pairs,
// e.g. "email must be a valid email; password is too short".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s must not be before %s", field, lowerFirst(fe.Param())))
		case "alphanum":
			msgs = append(msgs, field+" must contain only letters and digits")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// InvalidCredentials answers a failed login. Unknown email and wrong password
// share the same response.
func InvalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_credentials",
		Message: "Invalid credentials",
	})
}

// InternalError logs err, reports it and returns a generic 500
func InternalError(c echo.Context, err error, log logger.Logger) error {
	req := c.Request()
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn("request timed out", "method", req.Method, "path", req.URL.Path)
	} else {
		log.Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
	}

	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "server_error",
		Message: "Server error",
	})
}
