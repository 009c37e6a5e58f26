package core

import "encoding/json"

// CatalogRecord is one bibliographic entry extracted from a catalog archive.
// It exists only for the duration of one archive entry's processing; the
// store persists its normalized projection, never the record itself.
type CatalogRecord struct {
	ID              string
	Title           string
	Publisher       *string
	PublicationDate *string
	Language        *string
	Rights          *string
	Downloads       int
	Description     *string
	Type            *string
	Marc            MarcFields
	Author          *AuthorRef // nil when the record names no creator
	Subjects        []string
	Bookshelves     []string
	Formats         []FormatRef
}

// AuthorRef identifies a record's creator. ID is the catalog's agent
// identifier when one is present, otherwise the display name.
type AuthorRef struct {
	ID        string
	Name      string
	BirthDate string // empty string when unknown, never nil
	DeathDate string // empty string when unknown, never nil
	Webpage   *string
}

// FormatRef is one downloadable rendition of a record. Location is the
// catalog's file identifier and acts as the format's natural key.
type FormatRef struct {
	MimeType string
	Location string
}

// MarcFields maps MARC-family field names to their text content.
type MarcFields map[string]string

// Serialize renders the mapping as canonical JSON. Go's encoder emits map
// keys in sorted order, so equal mappings always serialize identically,
// which keeps repeated upserts of the same record byte-stable.
func (m MarcFields) Serialize() (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(m))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseMarcFields is the inverse of Serialize.
func ParseMarcFields(s string) (MarcFields, error) {
	if s == "" {
		return MarcFields{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return MarcFields(m), nil
}
