package catalog_test

import (
	"slices"
	"testing"

	"github.com/cavv-dev/crocdb-db/internal/catalog"
)

func TestMergeFieldsFillsOnlyUnset(t *testing.T) {
	existing := catalog.EntryFields{
		SearchToken: "supergame",
		Title:       "Super Game!",
		PlatformID:  "snes",
		ExternalID:  "SNS-XX",
	}
	incoming := catalog.EntryFields{
		SearchToken: "supergame",
		Title:       "Super Game",
		PlatformID:  "snes",
		ExternalID:  "SNS-YY",
		BoxartURL:   "http://x/b.png",
	}

	merged, filled := catalog.MergeFields(existing, incoming)
	if merged.ExternalID != "SNS-XX" {
		t.Fatalf("external id overwritten: %q", merged.ExternalID)
	}
	if merged.Title != "Super Game!" {
		t.Fatalf("title overwritten: %q", merged.Title)
	}
	if merged.BoxartURL != "http://x/b.png" {
		t.Fatalf("box art not filled: %q", merged.BoxartURL)
	}
	if !slices.Equal(filled, []string{catalog.FieldBoxartURL}) {
		t.Fatalf("unexpected filled fields %v", filled)
	}
}

func TestMergeFieldsEmptyIncomingKeepsExisting(t *testing.T) {
	existing := catalog.EntryFields{Title: "A", PlatformID: "nes", BoxartURL: "b"}
	merged, filled := catalog.MergeFields(existing, catalog.EntryFields{})
	if merged != existing {
		t.Fatalf("expected no change, got %+v", merged)
	}
	if len(filled) != 0 {
		t.Fatalf("expected nothing filled, got %v", filled)
	}
}

func TestMergeFieldsIsFieldIndependent(t *testing.T) {
	merged, filled := catalog.MergeFields(
		catalog.EntryFields{Title: "T", BoxartURL: "first"},
		catalog.EntryFields{ExternalID: "ID1", SearchToken: "t", Title: "Other", PlatformID: "gba", BoxartURL: "second"},
	)
	want := catalog.EntryFields{ExternalID: "ID1", SearchToken: "t", Title: "T", PlatformID: "gba", BoxartURL: "first"}
	if merged != want {
		t.Fatalf("merged = %+v, want %+v", merged, want)
	}
	wantFilled := []string{catalog.FieldExternalID, catalog.FieldSearchToken, catalog.FieldPlatform}
	if !slices.Equal(filled, wantFilled) {
		t.Fatalf("filled = %v, want %v", filled, wantFilled)
	}
}

func TestRecordCloneIsDeep(t *testing.T) {
	orig := catalog.Record{
		Title:   "A",
		Regions: []string{"us"},
		Links:   []catalog.Link{{Name: "a"}},
	}
	clone := orig.Clone()
	clone.Regions[0] = "eu"
	clone.Links[0].Name = "b"
	if orig.Regions[0] != "us" || orig.Links[0].Name != "a" {
		t.Fatalf("clone shares backing arrays with original: %+v", orig)
	}
}

func TestPathsFor(t *testing.T) {
	paths := catalog.PathsFor("/data/roms.db")
	if paths.Published != "/data/roms.db" {
		t.Fatalf("unexpected published path %q", paths.Published)
	}
	if paths.Staging != "/data/roms_staging.db" {
		t.Fatalf("unexpected staging path %q", paths.Staging)
	}
	if paths.Backup != "/data/roms_backup.db" {
		t.Fatalf("unexpected backup path %q", paths.Backup)
	}
}
