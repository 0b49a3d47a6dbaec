package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Row maps a column name to the value the driver returned for it.
type Row map[string]any

// ResultTable is the in-memory, read-only result of a query. Rows keep the order
// the database returned them in.
type ResultTable struct {
	Columns     []string
	ColumnTypes []string
	Rows        []Row
}

func NewResultTable(columns []string, rows ...[]any) (*ResultTable, error) {
	t := &ResultTable{Columns: append([]string(nil), columns...)}
	for i, values := range rows {
		if len(values) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(values), len(columns))
		}
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col] = values[j]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *ResultTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// String renders the cell as a category label.
func (t *ResultTable) String(row int, column string) (string, error) {
	v, err := t.cell(row, column)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return fmt.Sprint(val), nil
	}
}

// Float converts the cell to float64. Precision is whatever the query produced;
// values are never rounded here.
func (t *ResultTable) Float(row int, column string) (float64, error) {
	v, err := t.cell(row, column)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case []byte:
		return parseFloat(string(val), row, column)
	case string:
		return parseFloat(val, row, column)
	case fmt.Stringer:
		return parseFloat(val.String(), row, column)
	case nil:
		return 0, fmt.Errorf("row %d column %q is NULL", row, column)
	default:
		return 0, fmt.Errorf("row %d column %q: unsupported numeric type %T", row, column, v)
	}
}

func (t *ResultTable) cell(row int, column string) (any, error) {
	if row < 0 || row >= t.Len() {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	v, ok := t.Rows[row][column]
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	return v, nil
}

func parseFloat(s string, row int, column string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d column %q: %q is not numeric", row, column, s)
	}
	return f, nil
}
