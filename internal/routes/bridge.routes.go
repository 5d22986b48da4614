package routes

import (
	"deskbridge/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterBridgeRoutes registers the greeting and system-info surface.
func RegisterBridgeRoutes(r *gin.Engine, auth ...gin.HandlerFunc) {
	bridge := r.Group("/bridge", auth...)
	{
		bridge.GET("/greet", controllers.Greet)
		bridge.GET("/system", controllers.GetSystemInfo)
		bridge.GET("/host", controllers.GetHostInfo)
		bridge.GET("/stats", controllers.GetHostStats)
	}

	r.GET("/healthz", controllers.Healthz)
}
