package main

import (
	"fmt"
	"io"
	"sync"

	"gaddiyalibe/internal/models"
	"gaddiyalibe/internal/services"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var comment string
	var uid string
	var name string

	cmd := &cobra.Command{
		Use:   "watch <episodeId>",
		Short: "Open the watch screen of an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var mu sync.Mutex
			session := a.Watch.NewSession()
			session.OnPart = func(episodeID string, result services.PartResult) {
				mu.Lock()
				defer mu.Unlock()
				printPart(out, result)
			}

			view, err := session.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if view.NotFound {
				return fmt.Errorf("episode %s not found", args[0])
			}
			if comment == "" {
				return nil
			}

			identity := &models.Identity{UID: uid, DisplayName: name}
			saved, err := session.AddComment(cmd.Context(), identity, comment)
			if err != nil {
				return err
			}
			if saved.Status == models.CommentFailed {
				return fmt.Errorf("comment not saved: %s", saved.Error)
			}
			fmt.Fprintf(out, "comment saved as %s (%d in thread)\n", saved.ID, len(session.View().Comments))
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Append a comment after loading")
	cmd.Flags().StringVar(&uid, "uid", "", "Commenting user id")
	cmd.Flags().StringVar(&name, "name", "", "Commenting user display name")
	return cmd
}

func printPart(out io.Writer, result services.PartResult) {
	if result.Err != nil {
		fmt.Fprintf(out, "[%s] failed: %v\n", result.Part, result.Err)
		return
	}
	switch result.Part {
	case models.PartEpisode:
		if result.NotFound {
			fmt.Fprintln(out, "[episode] not found")
			return
		}
		e := result.Episode
		fmt.Fprintf(out, "[episode] S%d E%d %s\n", e.SeasonNumber, e.EpisodeNumber, e.GetDisplayTitle())
	case models.PartComments:
		fmt.Fprintf(out, "[comments] %d\n", len(result.Comments))
		for _, c := range result.Comments {
			fmt.Fprintf(out, "  %s: %s\n", c.UserDisplayName, c.Content)
		}
	case models.PartRelated:
		fmt.Fprintf(out, "[related] %d\n", len(result.Related))
		for _, e := range result.Related {
			fmt.Fprintf(out, "  %s %s\n", e.ID, e.GetDisplayTitle())
		}
	}
}
