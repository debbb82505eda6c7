package parsers

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/boxartcache"
	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
	"github.com/cavv-dev/crocdb-db/internal/logging"
	"github.com/cavv-dev/crocdb-db/internal/normalize"
	"github.com/cavv-dev/crocdb-db/internal/services"
)

// Everything from the first "(" on is ignored when comparing names.
var trailingGroupsPattern = regexp.MustCompile(`\(.*`)

type gametdbGame struct {
	Name   string `xml:"name,attr"`
	ID     string `xml:"id"`
	Type   string `xml:"type"`
	Region string `xml:"region"`
}

// GameTDB matches records against the GameTDB databases in
// <metadata_dir>/gametdb and fills box art and, optionally, the canonical
// name.
//
// Records with an external id are looked up by id. Others are matched by
// name: among the games of the same platform and region whose simplified
// name contains the simplified record title, the one with the shortest name
// wins.
//
// Flags: parse_boxart (default true), parse_name (default false).
type GameTDB struct {
	dir     string
	artURL  string
	fetcher Fetcher
	cache   *boxartcache.Cache
	logger  *slog.Logger

	dbs map[string][]gametdbGame
}

// NewGameTDB returns a GameTDB parser. Box-art probe outcomes are kept in
// cache, which may be disabled.
func NewGameTDB(dir, artURL string, fetcher Fetcher, cache *boxartcache.Cache, logger *slog.Logger) *GameTDB {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cache == nil {
		cache = boxartcache.NewCache("", logger)
	}
	return &GameTDB{
		dir:     dir,
		artURL:  strings.TrimRight(artURL, "/"),
		fetcher: fetcher,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "gametdb"),
		dbs:     make(map[string][]gametdbGame),
	}
}

// Parse implements the pipeline parser contract. Platforms GameTDB does not
// cover pass through unchanged.
func (p *GameTDB) Parse(ctx context.Context, records []catalog.Record, flags config.Flags) ([]catalog.Record, error) {
	parseBoxart := flags.Bool("parse_boxart", true)
	parseName := flags.Bool("parse_name", false)

	out := catalog.CloneRecords(records)
	for i := range out {
		rec := &out[i]
		file, ok := gametdbPlatformFiles[rec.PlatformID]
		if !ok {
			continue
		}
		games, err := p.database(file)
		if err != nil {
			return nil, err
		}

		var id, name string
		if rec.ExternalID != "" {
			id = rec.ExternalID
			if idx := slices.IndexFunc(games, func(g gametdbGame) bool { return g.ID == rec.ExternalID }); idx >= 0 {
				name = games[idx].Name
			}
		} else if best, ok := bestNameMatch(games, file, rec); ok {
			id, name = best.ID, best.Name
		} else {
			continue
		}

		if parseBoxart {
			url, err := p.boxartByID(ctx, id, rec.PlatformID, file, games)
			if err != nil {
				return nil, err
			}
			if url != "" {
				rec.BoxartURL = url
			}
		}
		if parseName && name != "" {
			rec.Title = name
		}
	}
	return out, nil
}

// bestNameMatch finds the game whose simplified name contains the record's
// simplified title, preferring the shortest simplified name.
func bestNameMatch(games []gametdbGame, file string, rec *catalog.Record) (gametdbGame, bool) {
	key := compareKey(rec.Title)
	if key == "" {
		return gametdbGame{}, false
	}
	typePlatforms := gametdbTypePlatforms[file]

	var (
		best    gametdbGame
		bestKey string
		found   bool
	)
	for _, game := range games {
		if platform, ok := typePlatforms[game.Type]; ok && platform != rec.PlatformID {
			continue
		}
		if len(rec.Regions) > 0 {
			region, ok := gametdbRegions[game.Region]
			if !ok || !slices.Contains(rec.Regions, region) {
				continue
			}
		}
		nameKey := compareKey(game.Name)
		if !strings.Contains(nameKey, key) {
			continue
		}
		if !found || len(nameKey) < len(bestKey) {
			best, bestKey, found = game, nameKey, true
		}
	}
	return best, found
}

func compareKey(title string) string {
	return normalize.DeriveSearchToken(trailingGroupsPattern.ReplaceAllString(title, ""))
}

// boxartByID resolves the cover URL for a serial or GameTDB id. An empty
// result means no cover is known.
func (p *GameTDB) boxartByID(ctx context.Context, id, platformID, file string, games []gametdbGame) (string, error) {
	m := gametdbSerialPatterns[platformID].FindStringSubmatch(id)
	if m == nil {
		return "", nil
	}
	prefix := strings.Join(m[1:], "")
	idx := slices.IndexFunc(games, func(g gametdbGame) bool { return strings.HasPrefix(g.ID, prefix) })
	if idx < 0 {
		return "", nil
	}
	fullID := games[idx].ID

	code := gametdbRegionCodePatterns[file].FindStringSubmatch(fullID)
	if code == nil {
		return "", nil
	}
	for _, candidate := range gametdbRegionCountries[file] {
		if candidate.pattern.MatchString(code[1]) {
			return p.probe(ctx, platformID, candidate.country, fullID)
		}
	}
	return "", nil
}

// probe finds the first country folder holding a cover for id, starting
// with country. Outcomes, misses included, are cached.
func (p *GameTDB) probe(ctx context.Context, platformID, country, id string) (string, error) {
	if entry, ok := p.cache.Lookup(platformID, id); ok {
		return entry.URL, nil
	}

	countries := append([]string{country}, gametdbCountries...)
	tried := make(map[string]struct{}, len(countries))
	found := ""
	for _, c := range countries {
		if _, done := tried[c]; done {
			continue
		}
		tried[c] = struct{}{}

		url := fmt.Sprintf("%s/%s/%s/%s.%s", p.artURL, gametdbBoxartPaths[platformID], c, id, gametdbImageExt(platformID))
		ok, err := p.fetcher.Head(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Debug("box art probe failed", logging.String("url", url), logging.Error(err))
			continue
		}
		if ok {
			found = url
			break
		}
	}

	if err := p.cache.Store(boxartcache.Entry{Platform: platformID, ID: id, URL: found}); err != nil {
		logging.WarnWithContext(p.logger, "box art cache write failed", "boxart_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the probe will be repeated next run"))
	}
	return found, nil
}

// database loads a GameTDB file once per run.
func (p *GameTDB) database(file string) ([]gametdbGame, error) {
	if games, ok := p.dbs[file]; ok {
		return games, nil
	}
	path := filepath.Join(p.dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gametdb", "open database", path, err)
	}
	defer f.Close()

	games, err := decodeGameTDB(f)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "gametdb", "decode database", path, err)
	}
	p.dbs[file] = games
	p.logger.Debug("loaded gametdb database",
		logging.String("file", file),
		logging.Int("games", len(games)))
	return games, nil
}

// decodeGameTDB streams the <game> elements of a GameTDB file.
func decodeGameTDB(r io.Reader) ([]gametdbGame, error) {
	decoder := xml.NewDecoder(r)
	var games []gametdbGame
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return games, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "game" {
			continue
		}
		var game gametdbGame
		if err := decoder.DecodeElement(&game, &start); err != nil {
			return nil, err
		}
		game.ID = strings.TrimSpace(game.ID)
		game.Type = strings.TrimSpace(game.Type)
		game.Region = strings.TrimSpace(game.Region)
		games = append(games, game)
	}
}
