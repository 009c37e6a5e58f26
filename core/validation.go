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


package core

import "fmt"

// ValidateRecord validates a CatalogRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty (untitled records never reach the store;
//     the parser drops them before they get here)
//   - Downloads must not be negative
//   - If author data is present, the author must have an id and a name
//   - Every format entry must carry a location id
//
// NOT validated:
//   - Optional scalar fields (nil means unknown, which is always legal)
//   - Author birth/death dates (empty string is the unknown value)
func ValidateRecord(record *CatalogRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyID)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTitle)
	}

	if record.Downloads < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeDownloads)
	}

	if record.Author != nil {
		if record.Author.Name == "" || record.Author.ID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyAuthorName)
		}
	}

	for _, format := range record.Formats {
		if format.Location == "" {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyFormatLocation)
		}
	}

	return nil
}
