package gutread

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/gutread/storage"
	"github.com/poiesic/gutread/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// testStore backs the facade with the in-memory store plus canned read
// surfaces.
type testStore struct {
	*memory.Store
	schemaText string
	queryRows  *storage.ResultSet
}

func (s *testStore) Schema(ctx context.Context) (string, error) {
	return s.schemaText, nil
}

func (s *testStore) Query(ctx context.Context, query string) (*storage.ResultSet, error) {
	return s.queryRows, nil
}

type scriptedModel struct {
	responses []string
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(m.responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	response := m.responses[0]
	m.responses = m.responses[1:]
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: response}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func writeTestArchive(t *testing.T, body string) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "pg158.rdf",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(body)),
	}))
	_, err := tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "catalog.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const testRecordRDF = `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
        xmlns:dcterms="http://purl.org/dc/terms/"
        xmlns:pgterms="http://www.gutenberg.org/2009/pgterms/">
  <pgterms:ebook rdf:about="ebooks/158">
    <dcterms:title>Emma</dcterms:title>
    <pgterms:downloads>5000</pgterms:downloads>
  </pgterms:ebook>
</rdf:RDF>`

func TestCatalogImport(t *testing.T) {
	store := &testStore{Store: memory.NewStore()}
	c := newCatalog(store)

	result, err := c.Import(context.Background(), writeTestArchive(t, testRecordRDF), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Processed)

	row, ok := store.Ebook("ebooks/158")
	require.True(t, ok)
	assert.Equal(t, "Emma", row.Title)
}

func TestCatalogAsk(t *testing.T) {
	store := &testStore{
		Store:      memory.NewStore(),
		schemaText: "CREATE TABLE ebook (...)",
		queryRows: &storage.ResultSet{
			Columns: []string{"title"},
			Rows:    [][]string{{"Emma"}},
		},
	}
	c := newCatalog(store)

	model := &scriptedModel{responses: []string{
		"SELECT title FROM ebook",
		"One book: Emma.",
	}}

	answer, err := c.Ask(context.Background(), model, "what do you have?")
	require.NoError(t, err)
	assert.Equal(t, "One book: Emma.", answer)
}

func TestCatalogSchema(t *testing.T) {
	store := &testStore{Store: memory.NewStore(), schemaText: "CREATE TABLE ebook (...)"}
	c := newCatalog(store)

	schema, err := c.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE ebook (...)", schema)
}
