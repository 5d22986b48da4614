package routes

import (
	"deskbridge/internal/controllers"
	"deskbridge/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers token minting/validation and the
// WebSocket endpoint. The WebSocket handler validates its own token
// from the query string, since webviews cannot set upgrade headers.
func RegisterAuthRoutes(r *gin.Engine, tokenLimiter *middleware.TokenRateLimiter) {
	auth := r.Group("/auth", middleware.TokenRateLimitMiddleware(tokenLimiter))
	{
		auth.POST("/token", controllers.HandleGetToken)
		auth.GET("/status", controllers.HandleTokenStatus)
	}

	r.GET("/ws", controllers.HandleWebSocket)
}
