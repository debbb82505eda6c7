package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
)

func newPlatformsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List platforms with their entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				platforms, err := store.Platforms(cmd.Context())
				if err != nil {
					return err
				}
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				shown := make([]catalog.Platform, 0, len(platforms))
				for _, p := range platforms {
					if all || p.EntryCount > 0 {
						shown = append(shown, p)
					}
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"platforms": shown, "stats": stats})
				}

				rows := make([][]string, 0, len(shown))
				for _, p := range shown {
					rows = append(rows, []string{p.ID, p.Brand, p.Name, strconv.Itoa(p.EntryCount)})
				}
				out := cmd.OutOrStdout()
				writeTable(out, []string{"ID", "Brand", "Name", "Entries"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
				fmt.Fprintf(out, "\n%d entries, %d links across %d platforms\n", stats.Entries, stats.Links, stats.Platforms)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include platforms without entries")
	return cmd
}
