// Package main hosts the crocdb CLI.
//
// `crocdb build` runs the configured sources into a fresh catalog and
// publishes it. `crocdb metadata fetch` downloads the reference data its
// parsers read. The remaining commands read the published catalog, scaffold
// and validate configuration, or clear the on-disk caches. Configuration is
// resolved once per invocation by commandContext.
package main
