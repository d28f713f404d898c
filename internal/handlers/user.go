// ===============================
// internal/handlers/user.go - Watch-later list endpoints
// ===============================

package handlers

import (
	"net/http"

	"gaddiyalibe/internal/middleware"
	"gaddiyalibe/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type watchLaterRequest struct {
	EpisodeID string `json:"episodeId" binding:"required"`
}

func (h *UserHandler) GetWatchLater(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	episodes, err := h.users.WatchLater(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch watch later list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"episodes": episodes,
		"total":    len(episodes),
	})
}

func (h *UserHandler) AddToWatchLater(c *gin.Context) {
	var request watchLaterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.users.AddToWatchLater(c.Request.Context(), middleware.CurrentIdentity(c), request.EpisodeID)
	if err != nil {
		respondError(c, err, "Failed to update watch later list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"watchLater": profile.WatchLater,
		"message":    "Episode saved",
	})
}

func (h *UserHandler) RemoveFromWatchLater(c *gin.Context) {
	episodeID := c.Param("episodeId")
	if episodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID required"})
		return
	}

	profile, err := h.users.RemoveFromWatchLater(c.Request.Context(), middleware.CurrentIdentity(c), episodeID)
	if err != nil {
		respondError(c, err, "Failed to update watch later list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"watchLater": profile.WatchLater,
		"message":    "Episode removed",
	})
}
