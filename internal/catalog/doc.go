// Package catalog owns the SQLite catalog: its schema, the merge-on-ingest
// operation, the trigram full-text index, and the staging to published
// lifecycle.
//
// A build writes into a fresh staging database through a single run-wide
// transaction. Ingest derives each record's identity and search token, fills
// unset scalar fields on an existing entry (first writer wins per field),
// appends links with duplicate tuples rejected by a UNIQUE constraint, and
// records regions only when the entry is first created. Publish commits and
// closes staging, rotates the current catalog into a single backup slot, and
// renames staging into place so the published path never disappears.
//
// The read side (Search, Entry, Platforms, Regions, Stats) opens the
// published file with query_only set and never mutates it.
package catalog
