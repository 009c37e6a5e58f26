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


// Package gutread loads the Project Gutenberg catalog into a relational
// store and answers questions about it.
//
// Catalog is the top-level entry point: it owns the store connection
// and exposes the import pipeline and the query agent behind one
// handle. The underlying packages (archive, rdf, ingestion, storage,
// agent) are usable on their own.
package gutread

import (
	"context"
	"log/slog"

	"github.com/poiesic/gutread/agent"
	"github.com/poiesic/gutread/ingestion"
	"github.com/poiesic/gutread/storage"
	"github.com/poiesic/gutread/storage/postgres"
	"github.com/tmc/langchaingo/llms"
)

// catalogStore is what a backend must provide: the write side for the
// importer plus the read surfaces for the agent.
type catalogStore interface {
	storage.CatalogStore
	storage.SchemaReader
	storage.Querier
}

// Catalog bundles a catalog store with the import pipeline and the
// query agent.
type Catalog struct {
	store  catalogStore
	logger *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Open connects to PostgreSQL and ensures the catalog schema exists.
func Open(ctx context.Context, cfg storage.Config, opts ...CatalogOption) (*Catalog, error) {
	store, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return newCatalog(store, opts...), nil
}

func newCatalog(store catalogStore, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Import runs the ingestion pipeline over the archive at path using the
// given number of workers (1 means strictly sequential).
func (c *Catalog) Import(ctx context.Context, path string, workers int) (*ingestion.Result, error) {
	pipeline, err := ingestion.NewPipeline(c.store,
		ingestion.WithLogger(c.logger),
		ingestion.WithWorkers(workers),
	)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, path)
}

// Ask answers a natural-language question about the catalog using the
// given language model.
func (c *Catalog) Ask(ctx context.Context, model llms.Model, question string) (string, error) {
	a, err := agent.New(model, c.store, c.store, agent.WithLogger(c.logger))
	if err != nil {
		return "", err
	}
	return a.Ask(ctx, question)
}

// Schema returns the store's schema as text.
func (c *Catalog) Schema(ctx context.Context) (string, error) {
	return c.store.Schema(ctx)
}

// Close releases the store connection.
func (c *Catalog) Close() error {
	return c.store.Close()
}
