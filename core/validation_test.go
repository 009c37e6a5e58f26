package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *CatalogRecord {
	return &CatalogRecord{
		ID:        "ebooks/158",
		Title:     "Emma",
		Downloads: 5000,
	}
}

func TestValidateRecord(t *testing.T) {
	require.NoError(t, ValidateRecord(validRecord()))
}

func TestValidateRecordNil(t *testing.T) {
	err := ValidateRecord(nil)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestValidateRecordRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CatalogRecord)
		wantErr error
	}{
		{
			name:    "empty id",
			mutate:  func(r *CatalogRecord) { r.ID = "" },
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty title",
			mutate:  func(r *CatalogRecord) { r.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "negative downloads",
			mutate:  func(r *CatalogRecord) { r.Downloads = -1 },
			wantErr: ErrNegativeDownloads,
		},
		{
			name: "author without name",
			mutate: func(r *CatalogRecord) {
				r.Author = &AuthorRef{ID: "2009/agents/68"}
			},
			wantErr: ErrEmptyAuthorName,
		},
		{
			name: "format without location",
			mutate: func(r *CatalogRecord) {
				r.Formats = []FormatRef{{MimeType: "text/plain"}}
			},
			wantErr: ErrEmptyFormatLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			err := ValidateRecord(record)
			assert.ErrorIs(t, err, ErrInvalidRecord)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRecordAuthorDatesMayBeEmpty(t *testing.T) {
	record := validRecord()
	record.Author = &AuthorRef{ID: "Jane Austen", Name: "Jane Austen"}

	// Empty birth/death dates are the unknown value, not a defect.
	require.NoError(t, ValidateRecord(record))
}
