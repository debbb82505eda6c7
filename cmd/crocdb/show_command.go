package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <identity>",
		Short: "Show one catalog entry with its download links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(cmd.Context(), func(store *catalog.Store) error {
				entry, err := store.Entry(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, entry)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Title:       %s\n", entry.Title)
				fmt.Fprintf(out, "Identity:    %s\n", entry.Identity)
				fmt.Fprintf(out, "Platform:    %s\n", entry.PlatformID)
				fmt.Fprintf(out, "Regions:     %s\n", orDash(strings.Join(entry.Regions, ", ")))
				fmt.Fprintf(out, "External ID: %s\n", orDash(entry.ExternalID))
				fmt.Fprintf(out, "Box art:     %s\n", orDash(entry.BoxartURL))
				fmt.Fprintln(out)

				rows := make([][]string, 0, len(entry.Links))
				for _, link := range entry.Links {
					rows = append(rows, []string{link.Name, link.Type, link.Format, link.Host, link.SizeString, link.URL})
				}
				writeTable(out, []string{"Name", "Type", "Format", "Host", "Size", "URL"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
				return nil
			})
		},
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
