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
	"fmt"
	"strings"

	"github.com/poiesic/gutread/storage"
)

// maxAnswerRows caps how many result rows are handed back to the model
// for summarization.
const maxAnswerRows = 50

const queryPromptTemplate = `You translate questions about an ebook catalog into SQL.

The database schema is:

%s

Rules:
- Output exactly one SQL SELECT statement and nothing else: no
  explanation, no markdown, no trailing semicolon.
- Never write anything other than SELECT.
- For string comparisons in WHERE clauses, prefer case-insensitive
  matching with ILIKE and surrounding %% wildcards over strict equality.
- Join through the association tables (author_ebook, subject_ebook,
  bookshelf_ebook, format_ebook) when the question spans entities.`

const answerPrompt = `You answer questions about an ebook catalog from query results.

The user's question and the rows a database query returned are given
below. Answer the question from those rows only. When listing books,
give author and title, with a brief description of at most 150
characters when one is available. If there are no rows, say that
nothing matching was found.`

func buildQueryPrompt(schemaText string) string {
	return fmt.Sprintf(queryPromptTemplate, schemaText)
}

func buildAnswerInput(question string, result *storage.ResultSet) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nResults:\n")
	b.WriteString(strings.Join(result.Columns, "\t"))
	b.WriteString("\n")

	rows := result.Rows
	truncated := false
	if len(rows) > maxAnswerRows {
		rows = rows[:maxAnswerRows]
		truncated = true
	}
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	if truncated {
		fmt.Fprintf(&b, "(%d more rows omitted)\n", len(result.Rows)-maxAnswerRows)
	}
	return b.String()
}
