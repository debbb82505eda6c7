package parsers

import (
	"context"
	"fmt"
	"strings"
)

// fakeFetcher serves pages by URL substring and answers HEAD for known URLs.
type fakeFetcher struct {
	pages map[string]string
	found map[string]bool
	gets  []string
	heads []string
}

func (f *fakeFetcher) Get(_ context.Context, url string, _ bool) (string, error) {
	f.gets = append(f.gets, url)
	for key, body := range f.pages {
		if strings.Contains(url, key) {
			return body, nil
		}
	}
	return "", fmt.Errorf("not found: %s", url)
}

func (f *fakeFetcher) Head(_ context.Context, url string) (bool, error) {
	f.heads = append(f.heads, url)
	return f.found[url], nil
}
