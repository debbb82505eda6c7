package parsers

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
	"github.com/cavv-dev/crocdb-db/internal/config"
)

// No-Intro region names and the catalog region they belong to.
var noIntroRegions = map[string]string{
	"USA":                  "us",
	"Canada":               "us",
	"Mexico":               "us",
	"Europe":               "eu",
	"Australia":            "eu",
	"Italy":                "eu",
	"Germany":              "eu",
	"France":               "eu",
	"Spain":                "eu",
	"United Kingdom":       "eu",
	"UK":                   "eu",
	"Netherlands":          "eu",
	"Austria":              "eu",
	"Belgium":              "eu",
	"Croatia":              "eu",
	"Denmark":              "eu",
	"Finland":              "eu",
	"Greece":               "eu",
	"Ireland":              "eu",
	"Poland":               "eu",
	"Portugal":             "eu",
	"Sweden":               "eu",
	"Turkey":               "eu",
	"Japan":                "jp",
	"Argentina":            "other",
	"Brazil":               "other",
	"China":                "other",
	"Hong Kong":            "other",
	"India":                "other",
	"Israel":               "other",
	"Korea":                "other",
	"Latin America":        "other",
	"New Zealand":          "other",
	"Norway":               "other",
	"Russia":               "other",
	"Scandinavia":          "other",
	"South Africa":         "other",
	"Switzerland":          "other",
	"Taiwan":               "other",
	"United Arab Emirates": "other",
	"Asia":                 "other",
	"Unknown":              "other",
}

var noIntroLanguages = []string{
	"En", "Ja", "Fr", "De", "Es", "It", "Nl", "Pt", "Sv", "No", "Da", "Fi",
	"Zh", "Ko", "Pl", "Ru", "Cs", "Hu", "Zh-Hant", "Zh-Hans", "El", "Es-XL",
	"Pt-BR", "Tr", "En-GB", "Ar", "En+En", "It+En", "Ro",
}

// Group contents that carry no information once regions are recorded.
var noIntroRemovable = append([]string{"Europe", "USA", "Japan", "World"}, noIntroLanguages...)

// Leading articles No-Intro moves behind a comma.
var noIntroArticles = []string{
	"the", "die", "la", "des", "das", "le", "l'", "ein", "der", "het", "el",
	"il", "i", "los", "os",
}

var articlePattern = regexp.MustCompile(`^(.*?),\s*(\S+)(?:\s+(.*))?$`)

// NoIntro interprets titles that follow the No-Intro naming convention.
//
// Flags (all default true):
//   - parse_title_regions: fill empty regions from the title
//   - clean_title_contents: drop groups holding only regions or languages
//   - move_title_article: "Legend of Zelda, The" -> "The Legend of Zelda"
type NoIntro struct{}

// NewNoIntro returns a No-Intro parser.
func NewNoIntro() *NoIntro {
	return &NoIntro{}
}

// Parse implements the pipeline parser contract.
func (p *NoIntro) Parse(_ context.Context, records []catalog.Record, flags config.Flags) ([]catalog.Record, error) {
	parseRegions := flags.Bool("parse_title_regions", true)
	cleanContents := flags.Bool("clean_title_contents", true)
	moveArticle := flags.Bool("move_title_article", true)

	out := catalog.CloneRecords(records)
	for i := range out {
		rec := &out[i]
		if parseRegions && len(rec.Regions) == 0 {
			rec.Regions = ParseTitleRegions(rec.Title)
		}
		if cleanContents {
			rec.Title = CleanTitle(rec.Title)
		}
		if moveArticle {
			rec.Title = MoveArticle(rec.Title)
		}
	}
	return out, nil
}

// ParseTitleRegions reads catalog regions from the first parenthesised group
// of title that names at least one known region.
func ParseTitleRegions(title string) []string {
	var regions []string
	for _, group := range parenGroups(title) {
		for _, content := range group {
			region, ok := noIntroRegions[strings.TrimSpace(content)]
			if ok && !slices.Contains(regions, region) {
				regions = append(regions, region)
			}
		}
		if len(regions) > 0 {
			break
		}
	}
	return regions
}

// CleanTitle removes parenthesised groups made up only of the major region
// names or language codes, then collapses spaces.
func CleanTitle(title string) string {
	clean := title
	for _, group := range parenGroups(title) {
		removable := true
		for _, content := range group {
			if !slices.Contains(noIntroRemovable, strings.TrimSpace(content)) {
				removable = false
				break
			}
		}
		if removable {
			clean = removeGroupsWithContents(clean, group)
		}
	}
	return collapseSpaces(clean)
}

// removeGroupsWithContents deletes every parenthesised group whose
// comma-separated items are all drawn from contents.
func removeGroupsWithContents(title string, contents []string) string {
	quoted := make([]string, len(contents))
	for i, c := range contents {
		quoted[i] = regexp.QuoteMeta(c)
	}
	alt := strings.Join(quoted, "|")
	pattern := regexp.MustCompile(`\((?:` + alt + `)(?:,(?:` + alt + `))*\)`)
	return pattern.ReplaceAllString(title, "")
}

// MoveArticle moves a trailing article to the front of the title. Names that
// already contain a parenthesised group before the comma are left alone.
func MoveArticle(title string) string {
	m := articlePattern.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	name, article, rest := m[1], m[2], m[3]
	if strings.Contains(name, "(") || !slices.Contains(noIntroArticles, strings.ToLower(article)) {
		return title
	}
	joined := article + " " + name
	if strings.HasSuffix(article, "'") {
		joined = article + name
	}
	if rest != "" {
		joined += " " + rest
	}
	return joined
}
