package controllers

import (
	"errors"
	"net/http"

	"deskbridge/internal/models"
	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
)

// statusForError maps a bridge error kind to an HTTP status. The body
// always carries the plain message the UI displays as-is.
func statusForError(err error) int {
	var be *services.BridgeError
	if errors.As(err, &be) && be.Kind == services.KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ReadDirectory lists the children of ?path= sorted directories-first.
func ReadDirectory(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path parameter required"})
		return
	}

	entries, err := services.ReadDirectory(path)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ReadFileContent returns the whole file at ?path= as one text payload.
func ReadFileContent(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path parameter required"})
		return
	}

	content, err := services.ReadFileContent(path)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

// WriteFileContent overwrites the target file with the posted content.
func WriteFileContent(c *gin.Context) {
	var req models.FileContent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path and content fields required"})
		return
	}

	if err := services.WriteFileContent(req.Path, req.Content); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// GetHomeDirectory returns the current user's home directory path.
func GetHomeDirectory(c *gin.Context) {
	home, err := services.HomeDirectory()
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": home})
}
