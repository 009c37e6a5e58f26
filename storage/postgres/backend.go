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


package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/gutread/storage"
)

// Store is the PostgreSQL-backed catalog store. It implements
// storage.CatalogStore, storage.SchemaReader and storage.Querier.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to PostgreSQL using the given configuration and verifies
// the connection with a ping.
func Open(ctx context.Context, cfg storage.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return openURL(ctx, cfg.URL(), opts...)
}

func openURL(ctx context.Context, url string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &Store{
		pool:   pool,
		logger: slog.Default().With("component", "postgres-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// schemaDDL creates the six catalog relations. Natural keys throughout;
// association tables enforce pair uniqueness so insert-if-absent writes
// stay idempotent at the store level.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS ebook (
	id               text PRIMARY KEY,
	title            text NOT NULL,
	publisher        text,
	publication_date text,
	language         text,
	license          text,
	download_count   integer NOT NULL,
	description      text,
	type             text,
	marc             text
);

CREATE TABLE IF NOT EXISTS author (
	id         text PRIMARY KEY,
	name       text NOT NULL,
	birth_date text NOT NULL DEFAULT '',
	death_date text NOT NULL DEFAULT '',
	webpage    text
);

CREATE TABLE IF NOT EXISTS subject (
	id text PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS bookshelf (
	id text PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS format (
	id        text PRIMARY KEY,
	mime_type text NOT NULL
);

CREATE TABLE IF NOT EXISTS author_ebook (
	ebook_id  text NOT NULL REFERENCES ebook (id),
	author_id text NOT NULL REFERENCES author (id),
	PRIMARY KEY (ebook_id, author_id)
);

CREATE TABLE IF NOT EXISTS subject_ebook (
	ebook_id   text NOT NULL REFERENCES ebook (id),
	subject_id text NOT NULL REFERENCES subject (id),
	PRIMARY KEY (ebook_id, subject_id)
);

CREATE TABLE IF NOT EXISTS bookshelf_ebook (
	ebook_id     text NOT NULL REFERENCES ebook (id),
	bookshelf_id text NOT NULL REFERENCES bookshelf (id),
	PRIMARY KEY (ebook_id, bookshelf_id)
);

CREATE TABLE IF NOT EXISTS format_ebook (
	ebook_id  text NOT NULL REFERENCES ebook (id),
	format_id text NOT NULL REFERENCES format (id),
	PRIMARY KEY (ebook_id, format_id)
);
`

// EnsureSchema creates the catalog relations if they do not exist yet.
// Safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	s.logger.Debug("schema ensured")
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
