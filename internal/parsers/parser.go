package parsers

import (
	"context"
	"regexp"
	"strings"
)

// Fetcher retrieves reference pages and probes artwork URLs.
type Fetcher interface {
	Get(ctx context.Context, url string, useCache bool) (string, error)
	Head(ctx context.Context, url string) (bool, error)
}

var (
	parenGroupPattern = regexp.MustCompile(`\((.*?)\)`)
	spaceRunPattern   = regexp.MustCompile(` +`)
)

// parenGroups returns the contents of every parenthesised group in title,
// each split on commas. Contents are not trimmed.
func parenGroups(title string) [][]string {
	matches := parenGroupPattern.FindAllStringSubmatch(title, -1)
	groups := make([][]string, 0, len(matches))
	for _, m := range matches {
		groups = append(groups, strings.Split(m[1], ","))
	}
	return groups
}

// collapseSpaces reduces runs of spaces to one and trims the result.
func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunPattern.ReplaceAllString(s, " "))
}
