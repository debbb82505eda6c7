package normalize

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var symbolReplacer = strings.NewReplacer(
	"+", " plus ",
	"&", " and ",
	"™", " ",
	"©", " ",
	"®", " ",
)

// fold spells out symbols that carry meaning in titles and reduces the
// result to ASCII.
func fold(s string) string {
	s = symbolReplacer.Replace(s)
	s = norm.NFKC.String(s)
	return unidecode.Unidecode(s)
}

// DeriveIdentity returns the merge key for a record: the slug of
// "title-platform-regions", with regions joined by "-" in the order given.
// Region order is significant.
func DeriveIdentity(title, platformID string, regions []string) string {
	return Slugify(fold(title) + "-" + platformID + "-" + strings.Join(regions, "-"))
}

// Slugify replaces every character outside [A-Za-z0-9-] with "-", lowercases,
// collapses runs of "-" and trims them from both ends. Slugify(Slugify(s)) ==
// Slugify(s).
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// DeriveSearchToken returns the lowercase alphanumeric projection of title
// used for full-text lookup. It depends on the title only.
func DeriveSearchToken(title string) string {
	return alnumLower(fold(title))
}

func alnumLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
