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


// Package postgres is the PostgreSQL backend for the catalog store.
//
// Each record is written in its own transaction with ON CONFLICT upserts
// keyed by the catalog's natural identifiers, which makes a full
// re-import (after a crash, or on a fresh feed) converge to the same
// rows instead of duplicating them.
//
// Integration tests require a reachable database and gate on the
// GUTREAD_TEST_DATABASE_URL environment variable; they are skipped
// otherwise.
package postgres
