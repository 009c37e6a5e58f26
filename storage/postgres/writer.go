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

	"github.com/jackc/pgx/v5"
	"github.com/poiesic/gutread/core"
	"github.com/poiesic/gutread/storage"
)

const (
	upsertEbookSQL = `
		INSERT INTO ebook (id, title, publisher, publication_date, language,
		                   license, download_count, description, type, marc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			publisher = EXCLUDED.publisher,
			publication_date = EXCLUDED.publication_date,
			language = EXCLUDED.language,
			license = EXCLUDED.license,
			download_count = EXCLUDED.download_count,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			marc = EXCLUDED.marc`

	upsertAuthorSQL = `
		INSERT INTO author (id, name, birth_date, death_date, webpage)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			birth_date = EXCLUDED.birth_date,
			death_date = EXCLUDED.death_date,
			webpage = EXCLUDED.webpage`

	upsertFormatSQL = `
		INSERT INTO format (id, mime_type)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET mime_type = EXCLUDED.mime_type`

	insertSubjectSQL   = `INSERT INTO subject (id) VALUES ($1) ON CONFLICT DO NOTHING`
	insertBookshelfSQL = `INSERT INTO bookshelf (id) VALUES ($1) ON CONFLICT DO NOTHING`

	insertAuthorEbookSQL    = `INSERT INTO author_ebook (ebook_id, author_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	insertSubjectEbookSQL   = `INSERT INTO subject_ebook (ebook_id, subject_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	insertBookshelfEbookSQL = `INSERT INTO bookshelf_ebook (ebook_id, bookshelf_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	insertFormatEbookSQL    = `INSERT INTO format_ebook (ebook_id, format_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
)

// StoreRecord writes one record's projection inside a single transaction.
// Entity rows go in before their association rows, so the foreign keys
// always resolve. A failure anywhere rolls back this record alone.
func (s *Store) StoreRecord(ctx context.Context, record *core.CatalogRecord) error {
	if err := core.ValidateRecord(record); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	marc, err := record.Marc.Serialize()
	if err != nil {
		return fmt.Errorf("%w: serializing marc fields: %w", storage.ErrWriteFailed, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", storage.ErrWriteFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := writeRecord(ctx, tx, record, marc); err != nil {
		return fmt.Errorf("%w: record %s: %w", storage.ErrWriteFailed, record.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit record %s: %w", storage.ErrWriteFailed, record.ID, err)
	}
	return nil
}

func writeRecord(ctx context.Context, tx pgx.Tx, record *core.CatalogRecord, marc string) error {
	if _, err := tx.Exec(ctx, upsertEbookSQL,
		record.ID, record.Title, record.Publisher, record.PublicationDate,
		record.Language, record.Rights, record.Downloads, record.Description,
		record.Type, marc,
	); err != nil {
		return fmt.Errorf("upsert ebook: %w", err)
	}

	if author := record.Author; author != nil {
		if _, err := tx.Exec(ctx, upsertAuthorSQL,
			author.ID, author.Name, author.BirthDate, author.DeathDate, author.Webpage,
		); err != nil {
			return fmt.Errorf("upsert author %s: %w", author.ID, err)
		}
		if _, err := tx.Exec(ctx, insertAuthorEbookSQL, record.ID, author.ID); err != nil {
			return fmt.Errorf("link author %s: %w", author.ID, err)
		}
	}

	for _, subject := range record.Subjects {
		if _, err := tx.Exec(ctx, insertSubjectSQL, subject); err != nil {
			return fmt.Errorf("insert subject %q: %w", subject, err)
		}
		if _, err := tx.Exec(ctx, insertSubjectEbookSQL, record.ID, subject); err != nil {
			return fmt.Errorf("link subject %q: %w", subject, err)
		}
	}

	for _, shelf := range record.Bookshelves {
		if _, err := tx.Exec(ctx, insertBookshelfSQL, shelf); err != nil {
			return fmt.Errorf("insert bookshelf %q: %w", shelf, err)
		}
		if _, err := tx.Exec(ctx, insertBookshelfEbookSQL, record.ID, shelf); err != nil {
			return fmt.Errorf("link bookshelf %q: %w", shelf, err)
		}
	}

	for _, format := range record.Formats {
		if _, err := tx.Exec(ctx, upsertFormatSQL, format.Location, format.MimeType); err != nil {
			return fmt.Errorf("upsert format %s: %w", format.Location, err)
		}
		if _, err := tx.Exec(ctx, insertFormatEbookSQL, record.ID, format.Location); err != nil {
			return fmt.Errorf("link format %s: %w", format.Location, err)
		}
	}

	return nil
}
