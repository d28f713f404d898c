// ===============================
// internal/services/catalog.go - Episode catalog loading and derived views
// ===============================

package services

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"go.uber.org/zap"
)

// Home feed playlist titles.
const (
	PlaylistRecent      = "Recent Podcasts"
	PlaylistArtists     = "Podcasts with Artists"
	PlaylistPoliticians = "Podcasts with Politicians"
)

type CatalogService struct {
	store   store.Store
	logger  *zap.Logger
	loading atomic.Int32
	now     func() time.Time
}

func NewCatalogService(st store.Store, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:  st,
		logger: logger.Named("catalog"),
		now:    time.Now,
	}
}

// Loading reports whether any catalog read is in flight.
func (s *CatalogService) Loading() bool {
	return s.loading.Load() > 0
}

// Load reads the whole episode collection once and returns it ordered by
// season then episode number, both descending. On failure the returned view
// is empty; there is no retry.
func (s *CatalogService) Load(ctx context.Context) (models.CatalogView, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	view := models.CatalogView{Episodes: []models.Episode{}, LoadedAt: s.now()}

	docs, err := s.store.ListAll(ctx, store.CollectionEpisodes)
	if err != nil {
		s.logger.Error("failed to fetch episodes", zap.Error(err))
		return view, fmt.Errorf("load catalog: %w", err)
	}

	episodes := make([]models.Episode, 0, len(docs))
	for _, doc := range docs {
		episode, valid := episodeFromDocument(doc)
		if !valid {
			// Kept with the 0 sentinel so it sorts after every numbered season.
			s.logger.Warn("episode has non-numeric season or episode number",
				zap.String("episodeId", doc.ID),
				zap.Any("seasonNumber", doc.Fields["seasonNumber"]),
				zap.Any("episodeNumber", doc.Fields["episodeNumber"]))
		}
		episodes = append(episodes, episode)
	}

	SortCatalog(episodes)
	view.Episodes = episodes

	s.logger.Debug("catalog loaded", zap.Int("episodes", len(episodes)))
	return view, nil
}

// SortCatalog orders episodes by season descending, then episode number
// descending, then id ascending so equal keys have a stable order.
func SortCatalog(episodes []models.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		a, b := episodes[i], episodes[j]
		if a.SeasonNumber != b.SeasonNumber {
			return a.SeasonNumber > b.SeasonNumber
		}
		if a.EpisodeNumber != b.EpisodeNumber {
			return a.EpisodeNumber > b.EpisodeNumber
		}
		return a.ID < b.ID
	})
}

// Partition returns the episodes whose category equals label exactly,
// preserving order.
func Partition(episodes []models.Episode, label string) []models.Episode {
	result := make([]models.Episode, 0)
	for _, episode := range episodes {
		if episode.Category == label {
			result = append(result, episode)
		}
	}
	return result
}

// FilterSeason narrows episodes to one season. A nil season returns the input
// unchanged.
func FilterSeason(episodes []models.Episode, season *int) []models.Episode {
	if season == nil {
		return episodes
	}
	result := make([]models.Episode, 0)
	for _, episode := range episodes {
		if episode.SeasonNumber == *season {
			result = append(result, episode)
		}
	}
	return result
}

// Seasons lists the distinct season numbers, highest first.
func Seasons(episodes []models.Episode) []int {
	seen := make(map[int]struct{})
	seasons := make([]int, 0)
	for _, episode := range episodes {
		if _, ok := seen[episode.SeasonNumber]; ok {
			continue
		}
		seen[episode.SeasonNumber] = struct{}{}
		seasons = append(seasons, episode.SeasonNumber)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(seasons)))
	return seasons
}

// BuildFeed derives the home playlists. Season options always come from the
// full catalog so selecting a season never shrinks the selector.
func BuildFeed(view models.CatalogView, season *int) models.Feed {
	filtered := FilterSeason(view.Episodes, season)

	playlists := []models.Playlist{
		newPlaylist(PlaylistRecent, "", filtered),
		newPlaylist(PlaylistArtists, models.CategoryArtist, Partition(filtered, models.CategoryArtist)),
		newPlaylist(PlaylistPoliticians, models.CategoryPolitician, Partition(filtered, models.CategoryPolitician)),
	}

	return models.Feed{
		SelectedSeason: season,
		Seasons:        Seasons(view.Episodes),
		Playlists:      playlists,
	}
}

func newPlaylist(title, category string, episodes []models.Episode) models.Playlist {
	if episodes == nil {
		episodes = []models.Episode{}
	}
	return models.Playlist{
		Title:      title,
		Category:   category,
		Episodes:   episodes,
		ComingSoon: len(episodes) == 0,
	}
}
