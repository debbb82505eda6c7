package catalog

import "slices"

// Link is one concrete download location for an entry.
type Link struct {
	Name       string
	Type       string
	Format     string
	URL        string
	Filename   string
	Host       string
	SizeBytes  int64
	SizeString string
	SourceURL  string
}

// Record is what scrapers and parsers produce and Ingest consumes.
type Record struct {
	Title      string
	PlatformID string
	Regions    []string
	ExternalID string
	BoxartURL  string
	Links      []Link
}

// Clone returns a deep copy so parsers can transform records without
// touching the caller's slice elements.
func (r Record) Clone() Record {
	r.Regions = slices.Clone(r.Regions)
	r.Links = slices.Clone(r.Links)
	return r
}

// CloneRecords deep-copies every record in records.
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}

// Entry is a canonical catalog row with its regions and links.
type Entry struct {
	Identity    string
	ExternalID  string
	SearchToken string
	Title       string
	PlatformID  string
	BoxartURL   string
	Regions     []string
	Links       []Link
}

// Platform is static reference data.
type Platform struct {
	ID         string
	Brand      string
	Name       string
	EntryCount int
}

// Region is static reference data.
type Region struct {
	ID   string
	Name string
}

// IngestResult describes what a single Ingest call changed.
type IngestResult struct {
	Identity     string
	Created      bool
	Filled       []string
	LinksAdded   int
	LinksIgnored int
}

// Merged reports whether the record landed on an existing entry.
func (r IngestResult) Merged() bool {
	return !r.Created
}

// SearchOptions narrows a Search call.
type SearchOptions struct {
	Platform string
	Region   string
	Limit    int
}

// Stats summarizes a catalog.
type Stats struct {
	Entries       int
	Links         int
	Platforms     int
	EntryRegions  int
	EntriesBoxart int
}
