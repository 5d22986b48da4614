package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, h := range handlers {
		r.Use(h)
	}
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := newTestEngine(SecurityHeadersMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestCORSMiddlewareAllowsShellOrigin(t *testing.T) {
	r := newTestEngine(CORSMiddleware([]string{"tauri://localhost", "http://localhost:1420"}))

	for _, origin := range []string{"tauri://localhost", "https://tauri.localhost", "http://localhost:1420"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestCORSMiddlewareIgnoresForeignOrigin(t *testing.T) {
	r := newTestEngine(CORSMiddleware([]string{"tauri://localhost"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := newTestEngine(CORSMiddleware([]string{"tauri://localhost"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "tauri://localhost")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestIPWhitelistLoopbackAlwaysAllowed(t *testing.T) {
	wl := NewIPWhitelist(nil)
	assert.True(t, wl.IsAllowed("127.0.0.1"))
	assert.True(t, wl.IsAllowed("::1"))
	assert.False(t, wl.IsAllowed("10.0.0.5"))

	wl = NewIPWhitelist([]string{"10.0.0.5"})
	assert.True(t, wl.IsAllowed("10.0.0.5"))
	assert.True(t, wl.IsAllowed("10.0.0.5:51234"))
	assert.False(t, wl.IsAllowed("10.0.0.6"))
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	services.InitAuthService("0123456789abcdef0123456789abcdef", time.Hour)
	r := newTestEngine(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	services.InitAuthService("0123456789abcdef0123456789abcdef", time.Hour)
	token, err := services.GenerateToken("shell-test")
	require.NoError(t, err)

	r := newTestEngine(AuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Query-parameter fallback for webview contexts
	req = httptest.NewRequest(http.MethodGet, "/ping?token="+token, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateClientName(t *testing.T) {
	iv := NewInputValidator()
	assert.True(t, iv.ValidateClientName("deskbridge-shell"))
	assert.True(t, iv.ValidateClientName("shell_2.0"))
	assert.False(t, iv.ValidateClientName(""))
	assert.False(t, iv.ValidateClientName("bad name"))
	assert.False(t, iv.ValidateClientName("semi;colon"))
}

func TestRateLimiterReusesPerIPLimiter(t *testing.T) {
	rl := NewRateLimiter()
	first := rl.GetLimiter("127.0.0.1")
	second := rl.GetLimiter("127.0.0.1")
	assert.Same(t, first, second)
	assert.NotSame(t, first, rl.GetLimiter("10.0.0.5"))
}
