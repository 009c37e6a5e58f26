// Package archive provides streaming access to the compressed catalog
// archive: a single-pass walker over its record entries and an idempotent
// download of the archive itself.
package archive
