package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "crocdb", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "Wrote sample sources manifest")
	for _, path := range []string{target, filepath.Join(filepath.Dir(target), "sources.toml")} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected file at %s: %v", path, err)
		}
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")

}

func TestConfigValidateRejectsUnknownScraper(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSources(t, env, `
[[platforms]]
id = "nes"

[[platforms.sources]]
format = "nes"
scraper = "not_a_scraper"
type = "Game"
urls = ["https://example.invalid/"]
`)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	requireContains(t, err.Error(), "not_a_scraper")
}

func writeSources(t *testing.T, env *cliTestEnv, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(filepath.Dir(env.configPath), "sources.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write sources: %v", err)
	}
}
