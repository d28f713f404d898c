package main

import (
	"fmt"
	"os"
	"time"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Episodes []seedEpisode `yaml:"episodes"`
}

type seedEpisode struct {
	ID            string    `yaml:"id"`
	Title         string    `yaml:"title"`
	Description   string    `yaml:"description"`
	VideoURL      string    `yaml:"videoUrl"`
	ThumbnailURL  string    `yaml:"thumbnailUrl"`
	SeasonNumber  int       `yaml:"seasonNumber"`
	EpisodeNumber int       `yaml:"episodeNumber"`
	Duration      int       `yaml:"duration"`
	Likes         int       `yaml:"likes"`
	Category      string    `yaml:"category"`
	CreatedAt     time.Time `yaml:"createdAt"`
}

func (s seedEpisode) episode(now time.Time) models.Episode {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return models.Episode{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		VideoURL:      s.VideoURL,
		ThumbnailURL:  s.ThumbnailURL,
		SeasonNumber:  s.SeasonNumber,
		EpisodeNumber: s.EpisodeNumber,
		Duration:      s.Duration,
		Likes:         s.Likes,
		Category:      s.Category,
		CreatedAt:     createdAt,
	}
}

func loadSeedFile(path string) (seedFile, error) {
	var seed seedFile
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Import episodes from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeedFile(args[0])
			if err != nil {
				return err
			}

			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			created, updated := 0, 0
			for _, entry := range seed.Episodes {
				episode := entry.episode(now)
				if episode.ID == "" {
					if _, err := a.Store.CreateOne(cmd.Context(), store.CollectionEpisodes, episode.Fields()); err != nil {
						return err
					}
					created++
					continue
				}
				if err := a.Store.SetOne(cmd.Context(), store.CollectionEpisodes, episode.ID, episode.Fields()); err != nil {
					return err
				}
				updated++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d episodes (%d new ids, %d upserted)\n", created+updated, created, updated)
			return nil
		},
	}
}
