package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_sources.toml
var sampleSources string

// Manifest is the ordered list of platforms and their sources.
type Manifest struct {
	Platforms []PlatformSources `toml:"platforms"`
}

// PlatformSources lists the sources contributing entries to one platform.
type PlatformSources struct {
	ID      string   `toml:"id"`
	Sources []Source `toml:"sources"`
}

// Source describes one remote index and how its listing is turned into
// records. Parsers run in declared order.
type Source struct {
	Format  string       `toml:"format"`
	Regions []string     `toml:"regions"`
	Scraper string       `toml:"scraper"`
	Type    string       `toml:"type"`
	Filter  string       `toml:"filter"`
	URLs    []string     `toml:"urls"`
	Parsers []ParserStep `toml:"parsers"`
}

// ParserStep names a parser and the flags it runs with.
type ParserStep struct {
	Name  string `toml:"name"`
	Flags Flags  `toml:"flags"`
}

// Flags holds parser options as decoded from the manifest.
type Flags map[string]any

// Bool returns the named flag, or def when it is absent or not a boolean.
func (f Flags) Bool(name string, def bool) bool {
	if f == nil {
		return def
	}
	if v, ok := f[name].(bool); ok {
		return v
	}
	return def
}

// FilterPattern compiles the source filter. A nil pattern means every
// listing entry is accepted.
func (s Source) FilterPattern() (*regexp.Regexp, error) {
	if strings.TrimSpace(s.Filter) == "" {
		return nil, nil
	}
	pattern, err := regexp.Compile(s.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", s.Filter, err)
	}
	return pattern, nil
}

// ProgressLabel renders the bracketed summary printed before a source runs.
func (s Source) ProgressLabel() string {
	var b strings.Builder
	b.WriteString("[" + s.Format + "] ")
	if len(s.Regions) > 0 {
		b.WriteString("[" + strings.Join(s.Regions, ", ") + "] ")
	}
	b.WriteString("[" + s.Scraper + "] ")
	b.WriteString("[" + s.Type + "]")
	return b.String()
}

// LoadManifest reads and validates the sources manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources: %w", err)
	}
	defer file.Close()

	var manifest Manifest
	if err := toml.NewDecoder(file).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Validate checks the manifest structure. Scraper and parser names are
// checked later against the registry.
func (m *Manifest) Validate() error {
	if m == nil || len(m.Platforms) == 0 {
		return errors.New("sources: at least one platform must be declared")
	}
	seen := make(map[string]struct{}, len(m.Platforms))
	for pi, platform := range m.Platforms {
		id := strings.TrimSpace(platform.ID)
		if id == "" {
			return fmt.Errorf("sources: platforms[%d].id must be set", pi)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("sources: platform %q declared twice", id)
		}
		seen[id] = struct{}{}
		for si, source := range platform.Sources {
			where := fmt.Sprintf("sources: %s source %d", id, si+1)
			if strings.TrimSpace(source.Scraper) == "" {
				return fmt.Errorf("%s: scraper must be set", where)
			}
			if len(source.URLs) == 0 {
				return fmt.Errorf("%s: at least one url must be set", where)
			}
			if _, err := source.FilterPattern(); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
			for _, step := range source.Parsers {
				if strings.TrimSpace(step.Name) == "" {
					return fmt.Errorf("%s: parser name must be set", where)
				}
			}
		}
	}
	return nil
}

// CreateSampleSources writes a sample sources manifest to the specified location.
func CreateSampleSources(path string) error {
	return writeSample(path, sampleSources, "sources")
}
