// Package agent turns natural-language questions about the catalog into
// read-only SQL and phrases the results as an answer.
//
// The agent owns no state and no database access of its own: it works
// through the storage read surfaces (SchemaReader, Querier) and an
// injected language model, which keeps the whole flow testable with
// fakes.
package agent
