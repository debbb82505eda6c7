package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/pipeline"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration and sources manifest",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}
			sourcesPath := filepath.Join(filepath.Dir(target), "sources.toml")

			if !overwrite {
				for _, path := range []string{target, sourcesPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("file already exists at %s (use --overwrite to replace it)", path)
					} else if !errors.Is(err, fs.ErrNotExist) {
						return fmt.Errorf("check %s: %w", path, err)
					}
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			if err := config.CreateSampleSources(sourcesPath); err != nil {
				return fmt.Errorf("create sample sources: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Wrote sample sources manifest to %s\n", sourcesPath)
			fmt.Fprintln(out, "Set internet_archive credentials (or export CROCDB_IA_USERNAME and CROCDB_IA_PASSWORD) before building internet_archive sources.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and the sources manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if _, err := os.Stat(ctx.configPath); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}

			manifest, err := config.LoadManifest(cfg.Paths.SourcesFile)
			if err != nil {
				return err
			}
			if err := pipeline.DefaultRegistry().Validate(manifest); err != nil {
				return err
			}
			sources := 0
			for _, platform := range manifest.Platforms {
				sources += len(platform.Sources)
			}
			fmt.Fprintf(out, "Sources manifest: %s (%d platforms, %d sources)\n", cfg.Paths.SourcesFile, len(manifest.Platforms), sources)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
