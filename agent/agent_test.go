package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/gutread/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns queued responses in order and records the prompts
// it was called with.
type fakeModel struct {
	responses []string
	calls     [][]llms.MessageContent
	err       error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return &llms.ContentResponse{}, nil
	}
	response := m.responses[0]
	m.responses = m.responses[1:]
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

type fakeSchema struct {
	text string
	err  error
}

func (s *fakeSchema) Schema(ctx context.Context) (string, error) {
	return s.text, s.err
}

type fakeQuerier struct {
	result  *storage.ResultSet
	err     error
	queries []string
}

func (q *fakeQuerier) Query(ctx context.Context, query string) (*storage.ResultSet, error) {
	q.queries = append(q.queries, query)
	if q.err != nil {
		return nil, q.err
	}
	return q.result, nil
}

func newTestAgent(t *testing.T, model *fakeModel, querier *fakeQuerier) *Agent {
	t.Helper()

	a, err := New(model, &fakeSchema{text: "CREATE TABLE ebook (...)"}, querier)
	require.NoError(t, err)
	return a
}

func TestNewRequiresCollaborators(t *testing.T) {
	schema := &fakeSchema{}
	querier := &fakeQuerier{}

	_, err := New(nil, schema, querier)
	assert.ErrorIs(t, err, ErrModelRequired)

	_, err = New(&fakeModel{}, nil, querier)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = New(&fakeModel{}, schema, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestAskHappyPath(t *testing.T) {
	model := &fakeModel{responses: []string{
		"SELECT title FROM ebook WHERE title ILIKE '%emma%'",
		"The catalog has one match: Emma by Jane Austen.",
	}}
	querier := &fakeQuerier{result: &storage.ResultSet{
		Columns: []string{"title"},
		Rows:    [][]string{{"Emma"}},
	}}

	answer, err := newTestAgent(t, model, querier).Ask(context.Background(), "Do you have Emma?")
	require.NoError(t, err)
	assert.Equal(t, "The catalog has one match: Emma by Jane Austen.", answer)

	require.Len(t, querier.queries, 1)
	assert.Equal(t, "SELECT title FROM ebook WHERE title ILIKE '%emma%'", querier.queries[0])
	require.Len(t, model.calls, 2)
}

func TestAskStripsCodeFences(t *testing.T) {
	model := &fakeModel{responses: []string{
		"```sql\nSELECT 1\n```",
		"One.",
	}}
	querier := &fakeQuerier{result: &storage.ResultSet{Columns: []string{"n"}, Rows: [][]string{{"1"}}}}

	_, err := newTestAgent(t, model, querier).Ask(context.Background(), "how many?")
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1"}, querier.queries)
}

func TestAskEmptyQuestion(t *testing.T) {
	a := newTestAgent(t, &fakeModel{}, &fakeQuerier{})

	_, err := a.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAskRejectedQueryPropagates(t *testing.T) {
	model := &fakeModel{responses: []string{"DROP TABLE ebook"}}
	querier := &fakeQuerier{err: storage.ErrQueryNotAllowed}

	_, err := newTestAgent(t, model, querier).Ask(context.Background(), "drop everything")
	assert.ErrorIs(t, err, storage.ErrQueryNotAllowed)
}

func TestAskNoModelOutput(t *testing.T) {
	_, err := newTestAgent(t, &fakeModel{}, &fakeQuerier{}).
		Ask(context.Background(), "anything?")
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestAskSchemaFailure(t *testing.T) {
	boom := errors.New("connection refused")
	a, err := New(&fakeModel{}, &fakeSchema{err: boom}, &fakeQuerier{})
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), "anything?")
	assert.ErrorIs(t, err, boom)
}

func TestBuildAnswerInputTruncatesRows(t *testing.T) {
	result := &storage.ResultSet{Columns: []string{"title"}}
	for i := 0; i < maxAnswerRows+10; i++ {
		result.Rows = append(result.Rows, []string{"Book"})
	}

	input := buildAnswerInput("list everything", result)
	assert.Contains(t, input, "(10 more rows omitted)")
}
