package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("CROCDB_IA_USERNAME", "")
	t.Setenv("CROCDB_IA_PASSWORD", "")

	configPath := filepath.Join(base, "crocdb.toml")
	testsupport.WriteFile(t, configPath, fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
static_dir = %q
metadata_dir = %q
sources_file = "sources.toml"

[metadata]
boxart_cache_file = %q
gametdb_download_url = %q
libretro_database_url = %q
mame_archive_url = %q

[logging]
level = "error"
`, cfg.Paths.DataDir, cfg.Paths.CacheDir, cfg.Paths.StaticDir, cfg.Paths.MetadataDir, cfg.Metadata.BoxartCacheFile,
		cfg.Metadata.GameTDBDownloadURL, cfg.Metadata.LibretroDatabaseURL, cfg.Metadata.MAMEArchiveURL))

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substring string) {
	t.Helper()
	if !strings.Contains(output, substring) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", substring, output)
	}
}
