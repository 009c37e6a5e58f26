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


package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/poiesic/gutread/core"
)

// Namespaces of the catalog vocabulary.
const (
	nsPG  = "http://www.gutenberg.org/2009/pgterms/"
	nsDC  = "http://purl.org/dc/terms/"
	nsRDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// marcPrefix matches the MARC-family elements (marc010, marc260, ...)
// in the catalog namespace. Matching is by tag-name family, not by value.
const marcPrefix = "marc"

// Document is the outcome of parsing one archive entry. A well-formed
// entry normally holds exactly one record, but the parser treats the
// document as a set and extracts every record element it finds.
type Document struct {
	Records []core.CatalogRecord
	Skipped int     // record elements dropped for having no title
	Issues  []error // record elements that failed extraction
}

// Parse reads one entry's markup and extracts its catalog records.
//
// Records without a title are skipped as a unit: they are counted in
// Skipped and produce nothing, not even partial data. Records missing a
// required field (identifier, download count) land in Issues. Only
// markup that cannot be parsed at all returns an error, wrapped as
// ErrParse; that too is scoped to the single entry.
func Parse(r io.Reader) (*Document, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := &Document{}
	for _, ebook := range root.findAll(nsPG, "ebook") {
		record, err := extractRecord(ebook)
		if err != nil {
			doc.Issues = append(doc.Issues, err)
			continue
		}
		if record == nil {
			doc.Skipped++
			continue
		}
		doc.Records = append(doc.Records, *record)
	}
	return doc, nil
}

// extractRecord turns one ebook element into a CatalogRecord. A nil
// record with nil error means the element had no title and was skipped.
func extractRecord(ebook *element) (*core.CatalogRecord, error) {
	title := ebook.find(nsDC, "title")
	if title == nil {
		return nil, nil
	}

	id := ebook.attr(nsRDF, "about")
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrRecord, ErrMissingID)
	}

	downloads, err := extractDownloads(ebook)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %w", ErrRecord, id, err)
	}

	record := &core.CatalogRecord{
		ID:              id,
		Title:           title.text(),
		Publisher:       optionalText(ebook, nsDC, "publisher"),
		PublicationDate: optionalText(ebook, nsDC, "issued"),
		Language:        extractLanguage(ebook),
		Rights:          optionalText(ebook, nsDC, "rights"),
		Downloads:       downloads,
		Description:     optionalText(ebook, nsDC, "description"),
		Type:            optionalText(ebook, nsDC, "type"),
		Marc:            extractMarc(ebook),
		Author:          extractAuthor(ebook),
		Subjects:        extractValues(ebook, nsDC, "subject"),
		Bookshelves:     extractValues(ebook, nsPG, "bookshelf"),
		Formats:         extractFormats(ebook),
	}
	return record, nil
}

func extractDownloads(ebook *element) (int, error) {
	node := ebook.find(nsPG, "downloads")
	if node == nil {
		return 0, ErrMissingDownloads
	}
	n, err := strconv.Atoi(node.text())
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMissingDownloads, node.text())
	}
	return n, nil
}

// extractLanguage pulls the nested value out of the language field. The
// outer element's raw text is never used; a missing nested value means
// the language is unknown.
func extractLanguage(ebook *element) *string {
	node := ebook.find(nsDC, "language")
	if node == nil {
		return nil
	}
	value := node.find(nsRDF, "value")
	if value == nil {
		return nil
	}
	text := value.text()
	if text == "" {
		return nil
	}
	return &text
}

// extractMarc collects every MARC-family field by its field name.
func extractMarc(ebook *element) core.MarcFields {
	fields := core.MarcFields{}
	for _, node := range ebook.findAllPrefix(nsPG, marcPrefix) {
		fields[node.XMLName.Local] = node.text()
	}
	return fields
}

// extractAuthor builds the author from the creator relation, if any.
// The agent identifier becomes the author id when present; otherwise the
// display name stands in. Birth and death dates default to the empty
// string, never to unknown — retries must upsert the identical row.
func extractAuthor(ebook *element) *core.AuthorRef {
	creator := ebook.find(nsDC, "creator")
	if creator == nil {
		return nil
	}

	name := creator.find(nsPG, "name")
	if name == nil || name.text() == "" {
		return nil
	}

	id := name.text()
	if agent := creator.find(nsPG, "agent"); agent != nil {
		if about := agent.attr(nsRDF, "about"); about != "" {
			id = about
		}
	}

	author := &core.AuthorRef{
		ID:   id,
		Name: name.text(),
	}
	if birth := creator.find(nsPG, "birthdate"); birth != nil {
		author.BirthDate = birth.text()
	}
	if death := creator.find(nsPG, "deathdate"); death != nil {
		author.DeathDate = death.text()
	}
	if webpage := creator.find(nsPG, "webpage"); webpage != nil {
		if w := firstNonEmpty(webpage.attr(nsRDF, "resource"), webpage.text()); w != "" {
			author.Webpage = &w
		}
	}
	return author
}

// extractValues collects the nested value of every occurrence of a
// repeated field, deduplicated. The literal text is the natural key:
// two records naming the same subject share one row downstream.
func extractValues(ebook *element, space, local string) []string {
	seen := map[string]bool{}
	var out []string
	for _, node := range ebook.findAll(space, local) {
		value := node.find(nsRDF, "value")
		if value == nil {
			continue
		}
		text := value.text()
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, text)
	}
	return out
}

// extractFormats yields one format per hasFormat file descriptor that
// carries both a mime value and a location identifier. Descriptors
// missing either are dropped without failing the record.
func extractFormats(ebook *element) []core.FormatRef {
	var out []core.FormatRef
	for _, node := range ebook.findAll(nsDC, "hasFormat") {
		file := node.find(nsPG, "file")
		if file == nil {
			continue
		}
		location := file.attr(nsRDF, "about")
		value := file.find(nsRDF, "value")
		if location == "" || value == nil || value.text() == "" {
			continue
		}
		out = append(out, core.FormatRef{
			MimeType: value.text(),
			Location: location,
		})
	}
	return out
}

// optionalText reads an optional scalar field. Most scalars are plain
// character data, but some (type) nest their value the way language
// does, so an empty element falls back to a nested rdf:value.
func optionalText(ebook *element, space, local string) *string {
	node := ebook.find(space, local)
	if node == nil {
		return nil
	}
	text := node.text()
	if text == "" {
		if value := node.find(nsRDF, "value"); value != nil {
			text = value.text()
		}
	}
	if text == "" {
		return nil
	}
	return &text
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
