// ===============================
// internal/handlers/catalog.go - Catalog and home feed endpoints
// ===============================

package handlers

import (
	"net/http"
	"strconv"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// seasonQuery reads ?season=. Absent means all seasons.
func seasonQuery(c *gin.Context) (*int, bool) {
	raw := c.Query("season")
	if raw == "" {
		return nil, true
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season must be a non-negative integer"})
		return nil, false
	}
	return &season, true
}

func (h *CatalogHandler) GetEpisodes(c *gin.Context) {
	season, ok := seasonQuery(c)
	if !ok {
		return
	}

	view, err := h.service.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch episodes")
		return
	}

	episodes := services.FilterSeason(view.Episodes, season)
	if category := c.Query("category"); category != "" {
		episodes = services.Partition(episodes, category)
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}

	c.JSON(http.StatusOK, gin.H{
		"episodes": episodes,
		"total":    len(episodes),
		"loadedAt": view.LoadedAt,
	})
}

func (h *CatalogHandler) GetSeasons(c *gin.Context) {
	view, err := h.service.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch seasons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seasons": services.Seasons(view.Episodes)})
}

func (h *CatalogHandler) GetFeed(c *gin.Context) {
	season, ok := seasonQuery(c)
	if !ok {
		return
	}

	// A failed read still renders the feed, with every playlist coming soon.
	view, err := h.service.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, services.BuildFeed(view, season))
}
