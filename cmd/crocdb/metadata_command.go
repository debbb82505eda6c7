package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/fetch"
	"github.com/cavv-dev/crocdb-db/internal/metadata"
)

func newMetadataCommand(ctx *commandContext) *cobra.Command {
	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Manage the reference databases read by parsers",
	}
	metadataCmd.AddCommand(newMetadataFetchCommand(ctx))
	return metadataCmd
}

func newMetadataFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [set...]",
		Short: "Download GameTDB, libretro and MAME reference data into metadata_dir",
		Long: "Download the reference databases used by the gametdb, libretro and mame\n" +
			"parsers. With no arguments every set is refreshed. Known sets: " +
			strings.Join(metadata.Sets(), ", ") + ".",
		ValidArgs: metadata.Sets(),
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
			opts := metadata.OptionsFromConfig(cfg, fetch.NewFromConfig(cfg, logger))
			opts.Progress = out
			if ctx.JSONMode() {
				opts.Progress = cmd.ErrOrStderr()
			}
			opts.Logger = logger

			results, err := metadata.NewDownloader(opts).Run(signalCtx, args)
			if err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, results)
			}
			fmt.Fprintln(out)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Set, result.Dir, fmt.Sprint(result.Files), fmt.Sprint(result.Kept)})
			}
			writeTable(out, []string{"Set", "Directory", "Files", "Kept"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
			return nil
		},
	}
}
