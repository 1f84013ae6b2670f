package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(t *testing.T, cfg SecurityHeadersConfig, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(SecurityHeaders(cfg))
	e.GET("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_DefaultHeaders(t *testing.T) {
	rec := serveWithHeaders(t, SecurityHeadersConfig{}, "/api/campaigns", nil)

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'none'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity))
}

func TestSecurityHeaders_Overrides(t *testing.T) {
	rec := serveWithHeaders(t, SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "no-referrer",
	}, "/", nil)

	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, DefaultSecurityHeadersConfig().PermissionsPolicy, rec.Header().Get("Permissions-Policy"))
}

func TestSecurityHeaders_SkipsPrefixes(t *testing.T) {
	cfg := SecurityHeadersConfig{Skipper: SkipPrefixes("/swagger/")}

	skipped := serveWithHeaders(t, cfg, "/swagger/index.html", nil)
	assert.Empty(t, skipped.Header().Get("Content-Security-Policy"))

	applied := serveWithHeaders(t, cfg, "/api/referrals", nil)
	assert.NotEmpty(t, applied.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	cfg := SecurityHeadersConfig{HSTSMaxAge: 31536000}

	plain := serveWithHeaders(t, cfg, "/", nil)
	assert.Empty(t, plain.Header().Get(echo.HeaderStrictTransportSecurity))

	proxied := serveWithHeaders(t, cfg, "/", map[string]string{echo.HeaderXForwardedProto: "https"})
	assert.Equal(t, "max-age=31536000; includeSubDomains", proxied.Header().Get(echo.HeaderStrictTransportSecurity))
}
