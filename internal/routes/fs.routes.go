package routes

import (
	"deskbridge/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterFSRoutes registers the filesystem surface.
func RegisterFSRoutes(r *gin.Engine, auth ...gin.HandlerFunc) {
	fs := r.Group("/fs", auth...)
	{
		fs.GET("/directory", controllers.ReadDirectory)
		fs.GET("/file", controllers.ReadFileContent)
		fs.POST("/file", controllers.WriteFileContent)
		fs.GET("/home", controllers.GetHomeDirectory)
	}
}
