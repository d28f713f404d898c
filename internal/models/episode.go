// ===============================
// internal/models/episode.go
// ===============================

package models

import (
	"fmt"
	"time"
)

// Known category labels used by the home feed playlists.
const (
	CategoryArtist     = "Artist"
	CategoryPolitician = "Politician"
)

type Episode struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoURL      string    `json:"videoUrl"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	Duration      int       `json:"duration"`
	Likes         int       `json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
	Category      string    `json:"category,omitempty"`
}

// Helper methods
func (e *Episode) GetDisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Season %d Episode %d", e.SeasonNumber, e.EpisodeNumber)
}

// Fields returns the document representation written to the store.
func (e *Episode) Fields() map[string]interface{} {
	return map[string]interface{}{
		"title":         e.Title,
		"description":   e.Description,
		"videoUrl":      e.VideoURL,
		"thumbnailUrl":  e.ThumbnailURL,
		"seasonNumber":  e.SeasonNumber,
		"episodeNumber": e.EpisodeNumber,
		"duration":      e.Duration,
		"likes":         e.Likes,
		"createdAt":     e.CreatedAt,
		"category":      e.Category,
	}
}

// CatalogView is the full episode list ordered by season then episode, both descending.
type CatalogView struct {
	Episodes []Episode `json:"episodes"`
	LoadedAt time.Time `json:"loadedAt"`
}

func (v CatalogView) Len() int {
	return len(v.Episodes)
}

// Playlist is a named, filtered subset of the catalog.
type Playlist struct {
	Title      string    `json:"title"`
	Category   string    `json:"category,omitempty"`
	Episodes   []Episode `json:"episodes"`
	ComingSoon bool      `json:"comingSoon"`
}

// Feed is the home screen: playlists built from the season-filtered catalog,
// season options taken from the whole catalog.
type Feed struct {
	SelectedSeason *int       `json:"selectedSeason"`
	Seasons        []int      `json:"seasons"`
	Playlists      []Playlist `json:"playlists"`
}
