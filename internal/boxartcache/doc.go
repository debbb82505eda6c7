// Package boxartcache remembers the outcome of box-art URL probes.
//
// Resolving a cover image means probing an art host with HEAD requests for
// several country folders. The outcome per (platform, game id) pair, either
// the first URL that answered or a recorded miss, is kept in a JSON file so
// later builds skip the probes entirely.
//
// The cache file lives at metadata.boxart_cache_file (default
// ~/.cache/crocdb/boxart_cache.json) and is rewritten atomically on every
// Store. `crocdb cache clear` empties it.
package boxartcache
