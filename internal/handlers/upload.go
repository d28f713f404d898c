// ===============================
// internal/handlers/upload.go - Profile picture upload
// ===============================

package handlers

import (
	"net/http"

	"gaddiyalibe/internal/middleware"
	"gaddiyalibe/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) UploadProfilePicture(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if !h.service.Enabled() {
		respondError(c, services.ErrStorageDisabled, "")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No file uploaded",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	if header.Size > services.MaxProfilePictureSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "File too large",
			"maxSize": services.MaxProfilePictureSize,
		})
		return
	}

	url, err := h.service.UploadProfilePicture(c.Request.Context(), userID, file, header.Filename)
	if err != nil {
		respondError(c, err, "Failed to upload profile picture")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     url,
		"message": "Profile picture updated",
	})
}
