// Package services defines shared utilities consumed by the build pipeline
// and its adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, platform ids, and source
//     positions for logging.
//   - Structured error markers plus the Wrap helper so fatal failures
//     (configuration, fetch, credential) can be classified after wrapping.
//
// Use these helpers when wiring new scrapers or parsers so failure handling
// and observability stay uniform across the pipeline.
package services
