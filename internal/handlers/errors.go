package handlers

import (
	"errors"
	"net/http"

	"gaddiyalibe/internal/services"
	"gaddiyalibe/internal/store"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Unknown errors are
// reported with the fallback message only.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, services.ErrEpisodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidComment), errors.Is(err, services.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
