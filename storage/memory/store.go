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


// Package memory is an in-memory catalog store with the same upsert
// semantics as the PostgreSQL backend. It exists so the pipeline and
// facade can be tested without a database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/gutread/core"
	"github.com/poiesic/gutread/storage"
)

// Pair is one association row.
type Pair struct {
	EbookID string
	Other   string
}

// EbookRow mirrors the ebook relation's non-key columns.
type EbookRow struct {
	Title           string
	Publisher       *string
	PublicationDate *string
	Language        *string
	Rights          *string
	Downloads       int
	Description     *string
	Type            *string
	Marc            string
}

// AuthorRow mirrors the author relation's non-key columns.
type AuthorRow struct {
	Name      string
	BirthDate string
	DeathDate string
	Webpage   *string
}

// Store implements storage.CatalogStore over process-local maps.
// Safe for concurrent writers; each StoreRecord applies atomically.
type Store struct {
	mu sync.Mutex

	ebooks      map[string]EbookRow
	authors     map[string]AuthorRow
	subjects    map[string]bool
	bookshelves map[string]bool
	formats     map[string]string // format id -> mime type

	authorEbook    map[Pair]bool
	subjectEbook   map[Pair]bool
	bookshelfEbook map[Pair]bool
	formatEbook    map[Pair]bool

	// FailFor injects a write failure for specific record ids, before
	// any state changes. Test hook.
	FailFor map[string]error

	closed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		ebooks:         map[string]EbookRow{},
		authors:        map[string]AuthorRow{},
		subjects:       map[string]bool{},
		bookshelves:    map[string]bool{},
		formats:        map[string]string{},
		authorEbook:    map[Pair]bool{},
		subjectEbook:   map[Pair]bool{},
		bookshelfEbook: map[Pair]bool{},
		formatEbook:    map[Pair]bool{},
	}
}

// StoreRecord applies one record with the backend's write order and
// upsert rules: full upsert for ebook/author/format, insert-if-absent
// for subjects, bookshelves and every association pair.
func (s *Store) StoreRecord(ctx context.Context, record *core.CatalogRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := core.ValidateRecord(record); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	marc, err := record.Marc.Serialize()
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}
	if err, ok := s.FailFor[record.ID]; ok {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	s.ebooks[record.ID] = EbookRow{
		Title:           record.Title,
		Publisher:       record.Publisher,
		PublicationDate: record.PublicationDate,
		Language:        record.Language,
		Rights:          record.Rights,
		Downloads:       record.Downloads,
		Description:     record.Description,
		Type:            record.Type,
		Marc:            marc,
	}

	if author := record.Author; author != nil {
		s.authors[author.ID] = AuthorRow{
			Name:      author.Name,
			BirthDate: author.BirthDate,
			DeathDate: author.DeathDate,
			Webpage:   author.Webpage,
		}
		s.authorEbook[Pair{record.ID, author.ID}] = true
	}

	for _, subject := range record.Subjects {
		s.subjects[subject] = true
		s.subjectEbook[Pair{record.ID, subject}] = true
	}

	for _, shelf := range record.Bookshelves {
		s.bookshelves[shelf] = true
		s.bookshelfEbook[Pair{record.ID, shelf}] = true
	}

	for _, format := range record.Formats {
		s.formats[format.Location] = format.MimeType
		s.formatEbook[Pair{record.ID, format.Location}] = true
	}

	return nil
}

// Close marks the store closed; further writes fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Snapshot is a deep copy of the store's state, for comparisons in
// tests.
type Snapshot struct {
	Ebooks         map[string]EbookRow
	Authors        map[string]AuthorRow
	Subjects       map[string]bool
	Bookshelves    map[string]bool
	Formats        map[string]string
	AuthorEbook    map[Pair]bool
	SubjectEbook   map[Pair]bool
	BookshelfEbook map[Pair]bool
	FormatEbook    map[Pair]bool
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Ebooks:         copyMap(s.ebooks),
		Authors:        copyMap(s.authors),
		Subjects:       copyMap(s.subjects),
		Bookshelves:    copyMap(s.bookshelves),
		Formats:        copyMap(s.formats),
		AuthorEbook:    copyMap(s.authorEbook),
		SubjectEbook:   copyMap(s.subjectEbook),
		BookshelfEbook: copyMap(s.bookshelfEbook),
		FormatEbook:    copyMap(s.formatEbook),
	}
}

// Ebook returns the stored row for id, if present.
func (s *Store) Ebook(id string) (EbookRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.ebooks[id]
	return row, ok
}

// Author returns the stored row for id, if present.
func (s *Store) Author(id string) (AuthorRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.authors[id]
	return row, ok
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
