package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/pipeline"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var useCached bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scrape every configured source and publish a new catalog",
		Long: "Run every source of the sources manifest into a fresh staging catalog.\n" +
			"The catalog is published only when every source succeeds; otherwise the\n" +
			"previously published catalog stays in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			progress := out
			if ctx.JSONMode() {
				progress = cmd.ErrOrStderr()
			}
			summary, err := pipeline.Build(signalCtx, pipeline.BuildOptions{
				Config:   cfg,
				UseCache: useCached,
				Progress: progress,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintln(out)
			rows := [][]string{
				{"Run ID", summary.RunID},
				{"Platforms", strconv.Itoa(summary.Platforms)},
				{"Sources", strconv.Itoa(summary.Sources)},
				{"Records", strconv.Itoa(summary.Records)},
				{"Entries created", strconv.Itoa(summary.Created)},
				{"Entries merged", strconv.Itoa(summary.Merged)},
				{"Links added", strconv.Itoa(summary.LinksAdded)},
				{"Duplicate links", strconv.Itoa(summary.LinksIgnored)},
				{"Catalog", summary.Published},
				{"Duration", summary.Duration.Round(time.Millisecond).String()},
			}
			if summary.StaticFiles != "" {
				rows = append(rows, []string{"Static files", summary.StaticFiles})
			}
			writeTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
			return nil
		},
	}

	cmd.Flags().BoolVar(&useCached, "use-cached", false, "Serve listing pages from the response cache when present")
	return cmd
}
