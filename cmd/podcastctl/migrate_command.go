package main

import (
	"fmt"

	"gaddiyalibe/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.DB == nil {
				fmt.Fprintf(out, "Store backend %q has no migrations\n", a.Config.StoreBackend)
				return nil
			}

			applied, err := database.AppliedMigrations(a.DB)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(applied))
			for _, m := range applied {
				rows = append(rows, []string{m.Version, m.AppliedAt})
			}
			fmt.Fprintln(out, renderTable([]string{"Version", "Applied"}, rows, nil))
			return nil
		},
	}
}
