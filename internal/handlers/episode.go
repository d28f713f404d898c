// ===============================
// internal/handlers/episode.go - Episode, watch screen and comment endpoints
// ===============================

package handlers

import (
	"net/http"

	"gaddiyalibe/internal/middleware"
	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/services"

	"github.com/gin-gonic/gin"
)

type EpisodeHandler struct {
	watch    *services.WatchService
	comments *services.CommentService
}

func NewEpisodeHandler(watch *services.WatchService, comments *services.CommentService) *EpisodeHandler {
	return &EpisodeHandler{watch: watch, comments: comments}
}

// ===============================
// PUBLIC EPISODE ENDPOINTS
// ===============================

func (h *EpisodeHandler) GetEpisode(c *gin.Context) {
	episodeID := c.Param("episodeId")
	if episodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID required"})
		return
	}

	episode, err := h.watch.GetEpisode(c.Request.Context(), episodeID)
	if err != nil {
		respondError(c, err, "Failed to fetch episode")
		return
	}
	c.JSON(http.StatusOK, episode)
}

// GetWatchView answers with whatever resolved. A missing episode is reported
// through notFound rather than a 404 so comments and related still render.
func (h *EpisodeHandler) GetWatchView(c *gin.Context) {
	episodeID := c.Param("episodeId")
	if episodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID required"})
		return
	}

	view := h.watch.Assemble(c.Request.Context(), episodeID)
	c.JSON(http.StatusOK, view)
}

func (h *EpisodeHandler) GetComments(c *gin.Context) {
	episodeID := c.Param("episodeId")
	if episodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID required"})
		return
	}

	comments, err := h.comments.List(c.Request.Context(), episodeID)
	if err != nil {
		respondError(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// ===============================
// AUTHENTICATED COMMENT ENDPOINTS
// ===============================

func (h *EpisodeHandler) CreateComment(c *gin.Context) {
	episodeID := c.Param("episodeId")
	if episodeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode ID required"})
		return
	}

	identity := middleware.CurrentIdentity(c)
	if identity.IsZero() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request models.CreateCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), identity, episodeID, request.Content)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
		"message": "Comment added successfully",
	})
}
