package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]string

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid")
}

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTMiddleware(stubAuthenticator{"good-token": "user-1"})(func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	rec, c := serve(t, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
	assert.Equal(t, "good-token", Token(c))
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr string
		wantMsg string
	}{
		{"missing header", "", "missing_token", "No token, authorization denied"},
		{"wrong scheme", "Basic abc", "invalid_token_format", "Authorization header must be 'Bearer {token}'"},
		{"empty token", "Bearer ", "invalid_token_format", "Authorization header must be 'Bearer {token}'"},
		{"unknown token", "Bearer bad-token", "invalid_token", "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantErr)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestUserID_PublicRoute(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, UserID(c))
	assert.Empty(t, Token(c))
}
