package postgres

import (
	"testing"

	"github.com/poiesic/gutread/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "plain select",
			query: "SELECT * FROM ebook",
			want:  "SELECT * FROM ebook",
		},
		{
			name:  "lowercase with trailing semicolon",
			query: "select title from ebook;",
			want:  "select title from ebook",
		},
		{
			name:  "surrounding whitespace",
			query: "\n  SELECT 1  \n",
			want:  "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkReadOnly(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckReadOnlyRejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"only semicolons", " ; ; "},
		{"two statements", "SELECT 1; SELECT 2"},
		{"insert", "INSERT INTO ebook (id) VALUES ('x')"},
		{"delete", "DELETE FROM ebook"},
		{"select smuggled after write", "DROP TABLE ebook; SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkReadOnly(tt.query)
			assert.ErrorIs(t, err, storage.ErrQueryNotAllowed)
		})
	}
}
