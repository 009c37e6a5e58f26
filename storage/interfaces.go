// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"context"

	"github.com/poiesic/gutread/core"
)

// CatalogStore persists catalog records across the six catalog relations.
type CatalogStore interface {
	// StoreRecord writes one record's normalized projection as a single
	// atomic unit: the ebook row first, then each referenced entity
	// followed by its association row, so every association always points
	// at rows that already exist. The ebook, author and format rows are
	// full upserts keyed by their natural ids; subject, bookshelf and
	// all association rows are insert-if-absent. A failure rolls back
	// only this record's writes.
	//
	// Storing the same record any number of times leaves the store in
	// the state one call produces.
	StoreRecord(ctx context.Context, record *core.CatalogRecord) error

	// Close releases the store's connections. The store must not be
	// used afterwards.
	Close() error
}

// SchemaReader exposes the store's relational schema as text, the way a
// generic schema dump would render it. Everything the importer writes
// must be visible through this surface.
type SchemaReader interface {
	Schema(ctx context.Context) (string, error)
}

// ResultSet is the outcome of a read-only query: the column names in
// selection order and the rows as stringified values.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Querier executes exactly one read-only SELECT statement. Anything
// else — multiple statements, or any non-SELECT — is rejected with
// ErrQueryNotAllowed.
type Querier interface {
	Query(ctx context.Context, query string) (*ResultSet, error)
}
