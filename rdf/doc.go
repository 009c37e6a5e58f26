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


// Package rdf parses catalog record entries from their RDF/XML markup
// into core.CatalogRecord values.
//
// Parsing is a pure function over one entry's bytes. The markup is
// decoded into a generic element tree and walked, because the vocabulary
// mixes fixed elements with wildcard families (the MARC tags) and nests
// values at varying depths. Per-record problems are reported alongside
// the successfully extracted records and never abort the entry, let
// alone the import.
package rdf
