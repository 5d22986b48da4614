package controllers

import (
	"net/http"

	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
)

// Greet returns the shell greeting for the given name.
func Greet(c *gin.Context) {
	name := c.DefaultQuery("name", "there")
	c.JSON(http.StatusOK, gin.H{"greeting": services.Greet(name)})
}

// GetSystemInfo returns the static os/arch/family identifiers.
func GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, services.GetSystemInfo())
}

// GetHostInfo returns extended host details for the diagnostics view.
func GetHostInfo(c *gin.Context) {
	c.JSON(http.StatusOK, services.GetHostInfo())
}

// GetHostStats returns a fresh host resource snapshot.
func GetHostStats(c *gin.Context) {
	c.JSON(http.StatusOK, services.GetHostStats())
}

// Healthz is the liveness probe for the shell's startup handshake.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
