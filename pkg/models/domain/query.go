package domain

import (
	"fmt"
	"strings"
)

// QuerySpec is a named SQL query together with the columns its result must carry.
type QuerySpec struct {
	name            string
	sql             string
	expectedColumns []string
}

func NewQuerySpec(name, sql string, expectedColumns ...string) (QuerySpec, error) {
	if strings.TrimSpace(name) == "" {
		return QuerySpec{}, fmt.Errorf("query name cannot be empty")
	}
	if strings.TrimSpace(sql) == "" {
		return QuerySpec{}, fmt.Errorf("query %q: sql cannot be empty", name)
	}
	if len(expectedColumns) == 0 {
		return QuerySpec{}, fmt.Errorf("query %q: at least one expected column is required", name)
	}

	seen := make(map[string]struct{}, len(expectedColumns))
	for _, col := range expectedColumns {
		if strings.TrimSpace(col) == "" {
			return QuerySpec{}, fmt.Errorf("query %q: expected column name cannot be empty", name)
		}
		if _, dup := seen[col]; dup {
			return QuerySpec{}, fmt.Errorf("query %q: duplicate expected column %q", name, col)
		}
		seen[col] = struct{}{}
	}

	return QuerySpec{
		name:            name,
		sql:             sql,
		expectedColumns: append([]string(nil), expectedColumns...),
	}, nil
}

func (q QuerySpec) Name() string {
	return q.name
}

func (q QuerySpec) SQL() string {
	return q.sql
}

// ExpectedColumns returns a copy; the spec itself never changes.
func (q QuerySpec) ExpectedColumns() []string {
	return append([]string(nil), q.expectedColumns...)
}

func (q QuerySpec) Expects(column string) bool {
	for _, col := range q.expectedColumns {
		if col == column {
			return true
		}
	}
	return false
}

// CheckTable verifies the table columns are a superset of the expected columns.
// The first missing column, in expected order, is reported.
func (q QuerySpec) CheckTable(table *ResultTable) error {
	if table == nil {
		return &SchemaMismatchError{Query: q.name, Missing: q.expectedColumns[0]}
	}
	for _, col := range q.expectedColumns {
		if !table.HasColumn(col) {
			return &SchemaMismatchError{
				Query:   q.name,
				Missing: col,
				Got:     append([]string(nil), table.Columns...),
			}
		}
	}
	return nil
}
