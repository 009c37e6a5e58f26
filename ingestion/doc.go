// Package ingestion drives the catalog import: archive walking, record
// parsing, and transactional storage, one entry at a time.
//
// The pipeline's one hard guarantee is failure isolation. A malformed
// entry, an invalid record, or a rolled-back write is counted, logged,
// and left behind; the run only aborts when the archive itself cannot
// be read. Combined with the store's natural-key upserts this makes a
// re-run after any interruption converge instead of duplicating.
package ingestion
