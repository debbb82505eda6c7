package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/boxartcache"
	"github.com/cavv-dev/crocdb-db/internal/fetch"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear on-disk caches",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache locations and sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, boxart, err := openCaches(ctx)
			if err != nil {
				return err
			}
			count, err := responses.Count()
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"responses_dir":   responses.Dir(),
					"responses":       count,
					"boxart_file":     boxart.Path(),
					"boxart_outcomes": boxart.Count(),
				})
			}
			writeTable(cmd.OutOrStdout(), []string{"Cache", "Location", "Items"}, [][]string{
				{"responses", responses.Dir(), fmt.Sprint(count)},
				{"boxart", boxart.Path(), fmt.Sprint(boxart.Count())},
			}, []columnAlignment{alignLeft, alignLeft, alignRight})
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var responsesOnly, boxartOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached listing pages and box-art probe outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if responsesOnly && boxartOnly {
				return fmt.Errorf("--responses and --boxart are mutually exclusive")
			}
			responses, boxart, err := openCaches(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			removed := 0
			if !boxartOnly {
				if removed, err = responses.Clear(); err != nil {
					return err
				}
				if !ctx.JSONMode() {
					fmt.Fprintf(out, "Removed %d cached responses from %s\n", removed, responses.Dir())
				}
			}
			outcomes := 0
			if !responsesOnly {
				outcomes = boxart.Count()
				if err := boxart.Clear(); err != nil {
					return err
				}
				if !ctx.JSONMode() {
					fmt.Fprintf(out, "Removed %d box-art outcomes from %s\n", outcomes, boxart.Path())
				}
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]int{"responses": removed, "boxart_outcomes": outcomes})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&responsesOnly, "responses", false, "Only clear cached listing pages")
	cmd.Flags().BoolVar(&boxartOnly, "boxart", false, "Only clear box-art probe outcomes")
	return cmd
}

func openCaches(ctx *commandContext) (*fetch.Cache, *boxartcache.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := ctx.logger()
	if err != nil {
		return nil, nil, err
	}
	return fetch.NewCache(cfg.Paths.CacheDir), boxartcache.NewCache(cfg.Metadata.BoxartCacheFile, logger), nil
}
