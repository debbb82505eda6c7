package parsers

import (
	"context"
	"regexp"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
)

// A six character game id introduced by a separator, plus everything after it.
var ghostwareIDPattern = regexp.MustCompile(`[_\[({ ]{1,2}([A-Z0-9]{6}).*`)

// Ghostware reads the game id embedded in file names of the "Wii ROM set by
// Ghostware" collection, e.g. "Mario Kart Wii [RMCE01]".
type Ghostware struct{}

// NewGhostware returns a Ghostware parser.
func NewGhostware() *Ghostware {
	return &Ghostware{}
}

// Parse implements the pipeline parser contract. Records without an
// embedded id keep their title and external id.
func (p *Ghostware) Parse(_ context.Context, records []catalog.Record, _ config.Flags) ([]catalog.Record, error) {
	out := catalog.CloneRecords(records)
	for i := range out {
		m := ghostwareIDPattern.FindStringSubmatchIndex(out[i].Title)
		if m == nil {
			continue
		}
		out[i].ExternalID = out[i].Title[m[2]:m[3]]
		out[i].Title = strings.TrimSpace(out[i].Title[:m[0]])
	}
	return out, nil
}
