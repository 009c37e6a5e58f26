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


package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/gutread/storage"
	"github.com/tmc/langchaingo/llms"
)

// Agent answers natural-language questions about the catalog. It is a
// thin orchestration: read the schema, have the model write one SELECT,
// run it through the read-only query surface, and have the model turn
// the rows into an answer.
type Agent struct {
	model   llms.Model
	schema  storage.SchemaReader
	querier storage.Querier
	logger  *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an agent over the given model and store read surfaces.
func New(model llms.Model, schema storage.SchemaReader, querier storage.Querier, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if schema == nil || querier == nil {
		return nil, ErrStoreRequired
	}

	a := &Agent{
		model:   model,
		schema:  schema,
		querier: querier,
		logger:  slog.Default().With("component", "agent"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Ask answers one question about the catalog.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	schemaText, err := a.schema.Schema(ctx)
	if err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}

	query, err := a.generateQuery(ctx, schemaText, question)
	if err != nil {
		return "", err
	}
	a.logger.Debug("generated query", "query", query)

	result, err := a.querier.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("running generated query: %w", err)
	}
	a.logger.Debug("query executed", "rows", len(result.Rows))

	return a.summarize(ctx, question, result)
}

// generateQuery asks the model for exactly one SELECT statement.
func (a *Agent) generateQuery(ctx context.Context, schemaText, question string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildQueryPrompt(schemaText))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(question)},
		},
	}

	response, err := a.model.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("generating query: %w", err)
	}
	if len(response.Choices) < 1 {
		return "", ErrNoResponse
	}

	query := stripFences(response.Choices[0].Content)
	if query == "" {
		return "", ErrNoResponse
	}
	return query, nil
}

// summarize asks the model to phrase the result rows as an answer.
func (a *Agent) summarize(ctx context.Context, question string, result *storage.ResultSet) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(answerPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildAnswerInput(question, result))},
		},
	}

	response, err := a.model.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return "", fmt.Errorf("summarizing results: %w", err)
	}
	if len(response.Choices) < 1 {
		return "", ErrNoResponse
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}

// stripFences removes markdown code fences the model may wrap around
// the statement.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```sql")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
