// Package normalize derives the stable keys the catalog merges and searches
// on, and converts between byte counts and their human-readable form.
//
// Identity and search token derivation share one preprocessing step: a
// handful of symbols are spelled out, the text is folded to its Unicode
// compatibility form, then transliterated to ASCII. Everything here is pure
// and total over its input.
package normalize
