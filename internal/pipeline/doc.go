// Package pipeline drives a catalog build: it resolves the scrapers and
// parsers named by the source manifest, runs every source in declared
// order, feeds the resulting records one at a time into a staging catalog
// and publishes it once every source succeeded.
//
// Adapters are looked up in a Registry by name. Resolve validates the whole
// manifest before anything is created, so a typo in the last source fails
// the build before the first page is fetched. A build holds an exclusive
// lock on the data directory for its whole duration.
package pipeline
