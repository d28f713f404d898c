package main

import (
	"fmt"
	"strconv"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/services"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var season int
	var category string
	var feed bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the episode catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			view, err := a.Catalog.Load(cmd.Context())
			if err != nil {
				return err
			}

			var selected *int
			if cmd.Flags().Changed("season") {
				selected = &season
			}
			out := cmd.OutOrStdout()

			if feed {
				f := services.BuildFeed(view, selected)
				for _, playlist := range f.Playlists {
					fmt.Fprintf(out, "%s\n", playlist.Title)
					if playlist.ComingSoon {
						fmt.Fprintln(out, "  Coming soon")
						continue
					}
					fmt.Fprintln(out, renderEpisodes(playlist.Episodes))
				}
				return nil
			}

			episodes := services.FilterSeason(view.Episodes, selected)
			if category != "" {
				episodes = services.Partition(episodes, category)
			}
			if len(episodes) == 0 {
				fmt.Fprintln(out, "No episodes")
				return nil
			}
			fmt.Fprintln(out, renderEpisodes(episodes))
			return nil
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Only show this season")
	cmd.Flags().StringVar(&category, "category", "", "Only show this category label")
	cmd.Flags().BoolVar(&feed, "feed", false, "Group into the home feed playlists")
	return cmd
}

func renderEpisodes(episodes []models.Episode) string {
	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{
			e.ID,
			strconv.Itoa(e.SeasonNumber),
			strconv.Itoa(e.EpisodeNumber),
			e.GetDisplayTitle(),
			e.Category,
		})
	}
	return renderTable(
		[]string{"ID", "Season", "Episode", "Title", "Category"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}
