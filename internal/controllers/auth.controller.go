package controllers

import (
	"net/http"

	"deskbridge/internal/middleware"
	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
)

// HandleGetToken mints a session token for the shell. Reachable only
// from whitelisted IPs and rate-limited separately from the rest of the
// surface.
func HandleGetToken(c *gin.Context) {
	client := c.DefaultQuery("client", "deskbridge-shell")

	validator := middleware.NewInputValidator()
	if !validator.ValidateClientName(client) {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid client name format")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client name format"})
		return
	}

	token, err := services.GenerateToken(client)
	if err != nil {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "token generation failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogTokenGenerated(c.ClientIP(), client)
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"client": client,
		"expiry": services.GetTokenExpiry(),
	})
}

// HandleTokenStatus reports whether a presented token is valid.
func HandleTokenStatus(c *gin.Context) {
	var token string

	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		token = c.Query("token")
	}

	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required in Authorization header or query parameter"})
		return
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"client":     claims.Client,
		"expires_at": claims.ExpiresAt.Time,
		"issued_at":  claims.IssuedAt.Time,
	})
}
