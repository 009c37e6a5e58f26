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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a CatalogRecord failed validation.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrEmptyID indicates the record has no catalog identifier.
	ErrEmptyID = errors.New("record id cannot be empty")

	// ErrEmptyTitle indicates the record has no title.
	ErrEmptyTitle = errors.New("record title cannot be empty")

	// ErrNegativeDownloads indicates a negative download count.
	ErrNegativeDownloads = errors.New("download count cannot be negative")

	// ErrEmptyAuthorName indicates author data is present without a name.
	ErrEmptyAuthorName = errors.New("author name cannot be empty")

	// ErrEmptyFormatLocation indicates a format entry without a location id.
	ErrEmptyFormatLocation = errors.New("format location cannot be empty")
)
