package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/config"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestPreservesOrder(t *testing.T) {
	path := writeManifest(t, `
[[platforms]]
id = "snes"

[[platforms.sources]]
format = "sfc"
regions = ["us", "eu"]
scraper = "myrient"
type = "Game"
filter = '^(.+)\.zip$'
urls = ["https://example.com/a/", "https://example.com/b/"]

[[platforms.sources.parsers]]
name = "no_intro"
flags = { move_title_article = false }

[[platforms.sources.parsers]]
name = "libretro"

[[platforms]]
id = "nes"

[[platforms.sources]]
format = "nes"
scraper = "mariocube"
type = "Game"
urls = ["https://example.com/nes/"]
`)
	manifest, err := config.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(manifest.Platforms) != 2 || manifest.Platforms[0].ID != "snes" || manifest.Platforms[1].ID != "nes" {
		t.Fatalf("unexpected platforms %+v", manifest.Platforms)
	}
	source := manifest.Platforms[0].Sources[0]
	if len(source.URLs) != 2 || source.URLs[1] != "https://example.com/b/" {
		t.Fatalf("unexpected urls %v", source.URLs)
	}
	if len(source.Parsers) != 2 || source.Parsers[0].Name != "no_intro" || source.Parsers[1].Name != "libretro" {
		t.Fatalf("unexpected parsers %+v", source.Parsers)
	}
	flags := source.Parsers[0].Flags
	if flags.Bool("move_title_article", true) {
		t.Fatal("expected explicit false flag")
	}
	if !flags.Bool("parse_title_regions", true) {
		t.Fatal("expected absent flag to use default")
	}
	if got := source.ProgressLabel(); got != "[sfc] [us, eu] [myrient] [Game]" {
		t.Fatalf("unexpected progress label %q", got)
	}
	if got := manifest.Platforms[1].Sources[0].ProgressLabel(); got != "[nes] [mariocube] [Game]" {
		t.Fatalf("unexpected label without regions %q", got)
	}
}

func TestFlagsBoolIgnoresNonBooleans(t *testing.T) {
	var nilFlags config.Flags
	if !nilFlags.Bool("x", true) {
		t.Fatal("nil flags should return default")
	}
	flags := config.Flags{"x": "yes"}
	if flags.Bool("x", false) {
		t.Fatal("non-boolean value should return default")
	}
}

func TestManifestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", ``, "at least one platform"},
		{"missing id", "[[platforms]]\nid = \"\"\n", "id must be set"},
		{"duplicate", "[[platforms]]\nid = \"nes\"\n[[platforms]]\nid = \"nes\"\n", "declared twice"},
		{"missing scraper", "[[platforms]]\nid = \"nes\"\n[[platforms.sources]]\nurls = [\"u\"]\n", "scraper must be set"},
		{"missing urls", "[[platforms]]\nid = \"nes\"\n[[platforms.sources]]\nscraper = \"myrient\"\n", "url must be set"},
		{"bad filter", "[[platforms]]\nid = \"nes\"\n[[platforms.sources]]\nscraper = \"myrient\"\nurls = [\"u\"]\nfilter = \"(\"\n", "compile filter"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadManifest(writeManifest(t, tc.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %v", tc.want, err)
			}
		})
	}
}
