package normalize

import (
	"net/url"
	"path"
	"strings"
)

// JoinURL resolves each segment against the running base, treating the base
// as a directory: every step resolves TrimLeft(segment, "/") against
// TrimRight(base, "/") + "/". A segment with its own scheme replaces the base.
func JoinURL(base string, segments ...string) string {
	current := base
	for _, segment := range segments {
		current = resolve(strings.TrimRight(current, "/")+"/", strings.TrimLeft(segment, "/"))
	}
	return current
}

func resolve(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	// A bare segment containing ":" would otherwise parse as a scheme.
	if !strings.Contains(ref, "://") {
		ref = "./" + ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return base + strings.TrimPrefix(ref, "./")
	}
	return baseURL.ResolveReference(refURL).String()
}

// RemoveExt strips the extension from the final element of filename. A name
// without an extension is returned unchanged.
func RemoveExt(filename string) string {
	base := path.Base(filename)
	ext := path.Ext(base)
	if ext == "" {
		return filename
	}
	return strings.TrimSuffix(base, ext)
}
