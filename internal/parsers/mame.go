package parsers

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// MAME replaces short MAME set names with their full descriptions using the
// software lists in <metadata_dir>/mame/hash. The set name becomes the
// external id.
type MAME struct {
	dir    string
	logger *slog.Logger

	once         sync.Once
	descriptions map[string]string
	loadErr      error
}

// NewMAME returns a MAME parser reading software lists from dir.
func NewMAME(dir string, logger *slog.Logger) *MAME {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MAME{dir: dir, logger: logging.NewComponentLogger(logger, "mame")}
}

type softwareList struct {
	Software []struct {
		Name        string `xml:"name,attr"`
		Description string `xml:"description"`
	} `xml:"software"`
}

// Parse implements the pipeline parser contract.
func (p *MAME) Parse(_ context.Context, records []catalog.Record, _ config.Flags) ([]catalog.Record, error) {
	p.once.Do(func() { p.descriptions, p.loadErr = p.load() })
	if p.loadErr != nil {
		return nil, p.loadErr
	}

	out := catalog.CloneRecords(records)
	for i := range out {
		description, ok := p.descriptions[out[i].Title]
		if !ok {
			continue
		}
		out[i].ExternalID = out[i].Title
		out[i].Title = description
	}
	return out, nil
}

func (p *MAME) load() (map[string]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mame", "load software lists", p.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".xml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	descriptions := make(map[string]string)
	for _, name := range names {
		path := filepath.Join(p.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var list softwareList
		if err := xml.Unmarshal(data, &list); err != nil {
			return nil, services.Wrap(services.ErrParse, "mame", "decode software list", path, err)
		}
		for _, sw := range list.Software {
			descriptions[sw.Name] = sw.Description
		}
	}
	p.logger.Debug("loaded mame software lists",
		logging.Int("files", len(names)),
		logging.Int("software", len(descriptions)))
	return descriptions, nil
}
