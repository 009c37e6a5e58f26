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

import "errors"

var (
	// ErrWriteFailed indicates a record's transaction failed and was
	// rolled back. Previously committed records are unaffected.
	ErrWriteFailed = errors.New("record write failed")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store is closed")

	// ErrQueryNotAllowed indicates a query was rejected by the
	// read-only surface: not a SELECT, or more than one statement.
	ErrQueryNotAllowed = errors.New("query not allowed")

	// ErrInvalidConfig indicates incomplete connection configuration.
	ErrInvalidConfig = errors.New("invalid storage configuration")
)
