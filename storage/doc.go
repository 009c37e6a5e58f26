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


// Package storage defines the persistence abstraction for gutread.
//
// CatalogStore is the write side the import pipeline drives; SchemaReader
// and Querier are the read surfaces the query agent consumes. Interfaces
// live here so the pipeline and agent can be tested against the in-memory
// backend while production runs on PostgreSQL.
//
// Two distinct upsert strategies are deliberate, because they carry
// different idempotence guarantees:
//
//   - full upsert (ebook, author, format): insert or overwrite every
//     non-key column, so a re-import picks up changed attributes
//   - insert-if-absent (subject, bookshelf, all association rows):
//     pure append of natural keys, never updated
//
// Rows are never deleted by this layer; entities absent from the current
// archive run simply remain from prior runs.
package storage
