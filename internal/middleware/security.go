package middleware

import (
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Package-level security logger instance
var GlobalSecurityLogger *SecurityLogger

// RateLimiter implements token bucket rate limiting per IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}

	// 100 requests per second per IP, burst of 200
	limiter := rate.NewLimiter(rate.Limit(100), 200)
	rl.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware enforces rate limiting per IP
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			log.Printf("[SECURITY] Rate limit exceeded for IP: %s", ip)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// TokenRateLimiter limits token minting per IP (stricter than general
// rate limiting, since token requests should be rare)
type TokenRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewTokenRateLimiter creates a new token-specific rate limiter
func NewTokenRateLimiter() *TokenRateLimiter {
	return &TokenRateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (tr *TokenRateLimiter) GetLimiter(ip string) *rate.Limiter {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if limiter, exists := tr.limiters[ip]; exists {
		return limiter
	}

	// 5 token requests per minute per IP, burst of 10
	limiter := rate.NewLimiter(rate.Every(12*time.Second), 10)
	tr.limiters[ip] = limiter
	return limiter
}

// TokenRateLimitMiddleware enforces stricter rate limiting on token endpoints
func TokenRateLimitMiddleware(limiter *TokenRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			log.Printf("[SECURITY] Token rate limit exceeded for IP: %s", ip)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "token endpoint rate limited",
				"retry_after": 60,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// CORSMiddleware restricts cross-origin access to the shell's webview
// origin and the frontend dev server
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		normalizedOrigin := strings.TrimRight(origin, "/")

		allowed := false
		for _, o := range allowedOrigins {
			trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
			if trimmed == "" {
				continue
			}
			if trimmed == "*" || normalizedOrigin == trimmed {
				allowed = true
				break
			}
			// Webview origins vary by platform: tauri://localhost on
			// macOS/Linux, https://tauri.localhost on Windows, and
			// "null" from some embedded contexts.
			if trimmed == "tauri://localhost" &&
				(strings.HasPrefix(normalizedOrigin, "tauri://") ||
					normalizedOrigin == "https://tauri.localhost" ||
					normalizedOrigin == "null") {
				allowed = true
				break
			}
			if !strings.Contains(trimmed, "://") {
				if parsed, err := url.Parse(normalizedOrigin); err == nil && parsed.Host == trimmed {
					allowed = true
					break
				}
			}
		}

		if allowed {
			c.Header("Vary", "Origin")
			if normalizedOrigin != "" {
				c.Header("Access-Control-Allow-Origin", normalizedOrigin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// IPWhitelist restricts access to known client IPs
type IPWhitelist struct {
	ips map[string]bool
	mu  sync.RWMutex
}

// NewIPWhitelist creates a new IP whitelist
func NewIPWhitelist(ips []string) *IPWhitelist {
	wl := &IPWhitelist{
		ips: make(map[string]bool),
	}
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			wl.ips[ip] = true
		}
	}
	return wl
}

// IsAllowed checks if an IP may reach the bridge. Loopback is always
// allowed; with no extra IPs configured the bridge is loopback-only.
func (wl *IPWhitelist) IsAllowed(ip string) bool {
	wl.mu.RLock()
	defer wl.mu.RUnlock()

	ipOnly, _, _ := net.SplitHostPort(ip)
	if ipOnly == "" {
		ipOnly = ip
	}

	if ipOnly == "127.0.0.1" || ipOnly == "::1" || ipOnly == "localhost" {
		return true
	}

	return wl.ips[ipOnly]
}

// IPWhitelistMiddleware enforces IP whitelisting
func IPWhitelistMiddleware(whitelist *IPWhitelist) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !whitelist.IsAllowed(ip) {
			log.Printf("[SECURITY] Access denied for non-whitelisted IP: %s", ip)
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires a valid session token on bridge operations.
// The shell sends it as a Bearer header; a token query parameter is
// accepted as fallback for webview contexts that cannot set headers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		}
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			if GlobalSecurityLogger != nil {
				GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token")
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		claims, err := services.ValidateToken(token)
		if err != nil {
			if GlobalSecurityLogger != nil {
				GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("client", claims.Client)
		c.Next()
	}
}

// InputValidator validates and sanitizes user input
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateClientName checks if a client name is safe
func (iv *InputValidator) ValidateClientName(name string) bool {
	if len(name) < 1 || len(name) > 255 {
		return false
	}

	// Allow alphanumeric, hyphens, underscores, dots
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.') {
			return false
		}
	}

	return true
}

// SecurityLogger logs security events
type SecurityLogger struct {
	mu sync.Mutex
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger() *SecurityLogger {
	sl := &SecurityLogger{}
	GlobalSecurityLogger = sl
	return sl
}

// LogFailedAuth logs failed authentication attempts
func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY-WARNING] Failed authentication from IP %s: %s", ip, reason)
}

// LogTokenGenerated logs successful token generation
func (sl *SecurityLogger) LogTokenGenerated(ip string, client string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY] Token generated for client %s from IP %s", client, ip)
}

// LogWebSocketConnected logs successful WebSocket connections
func (sl *SecurityLogger) LogWebSocketConnected(ip string, client string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY] WebSocket connected for client %s from IP %s", client, ip)
}
