package textutil

import "strings"

// fileNameReplacer maps characters that are invalid in file names on common
// filesystems to underscores.
var fileNameReplacer = strings.NewReplacer(
	"\\", "_",
	"/", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName replaces every filesystem-unsafe character in name with an
// underscore. The mapping is one-to-one per character, so distinct URLs of
// equal shape may share a name only when they differ solely in unsafe
// characters.
func SanitizeFileName(name string) string {
	return fileNameReplacer.Replace(name)
}
