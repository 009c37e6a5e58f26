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


package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/gutread/storage"
)

const schemaColumnsSQL = `
	SELECT table_name, column_name, data_type, is_nullable
	FROM information_schema.columns
	WHERE table_schema = 'public'
	ORDER BY table_name, ordinal_position`

// Schema renders the public schema as one table definition per relation,
// from information_schema. This is the surface the query agent reads, so
// every column the importer writes shows up here with its name and type.
func (s *Store) Schema(ctx context.Context) (string, error) {
	rows, err := s.pool.Query(ctx, schemaColumnsSQL)
	if err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	currentTable := ""
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return "", fmt.Errorf("reading schema: %w", err)
		}

		if table != currentTable {
			if currentTable != "" {
				b.WriteString(");\n\n")
			}
			fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
			currentTable = table
		}

		fmt.Fprintf(&b, "    %s %s", column, dataType)
		if nullable == "NO" {
			b.WriteString(" NOT NULL")
		}
		b.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}
	if currentTable != "" {
		b.WriteString(");\n")
	}
	return b.String(), nil
}

// Query executes one read-only SELECT statement and returns its rows as
// strings along with the column names.
func (s *Store) Query(ctx context.Context, query string) (*storage.ResultSet, error) {
	stmt, err := checkReadOnly(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	result := &storage.ResultSet{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				row[i] = "NULL"
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return result, nil
}

// checkReadOnly accepts exactly one SELECT statement and returns it
// trimmed. Multiple statements, or anything that is not a SELECT, are
// rejected.
func checkReadOnly(query string) (string, error) {
	var statements []string
	for _, part := range strings.Split(query, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}

	if len(statements) == 0 {
		return "", fmt.Errorf("%w: empty query", storage.ErrQueryNotAllowed)
	}
	if len(statements) > 1 {
		return "", fmt.Errorf("%w: only a single statement is allowed", storage.ErrQueryNotAllowed)
	}

	stmt := statements[0]
	if !strings.HasPrefix(strings.ToLower(stmt), "select") {
		return "", fmt.Errorf("%w: only SELECT statements are allowed", storage.ErrQueryNotAllowed)
	}
	return stmt, nil
}
