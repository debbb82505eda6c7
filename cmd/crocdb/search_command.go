package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var opts catalog.SearchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the published catalog by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				entries, err := store.Search(cmd.Context(), query, opts)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if entries == nil {
						entries = []catalog.Entry{}
					}
					return writeJSON(cmd, entries)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No entries match %q\n", query)
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Identity,
						entry.Title,
						entry.PlatformID,
						strings.Join(entry.Regions, ","),
					})
				}
				writeTable(out, []string{"Identity", "Title", "Platform", "Regions"}, rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Platform, "platform", "p", "", "Only entries of this platform id")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "Only entries tagged with this region id")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 25, "Maximum number of results")
	return cmd
}
