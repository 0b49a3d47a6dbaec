package domain

import (
	"fmt"
	"strings"
)

type ChartKind string

const (
	ChartKindBar ChartKind = "bar"
	ChartKindPie ChartKind = "pie"
)

func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(s))) {
	case ChartKindBar:
		return ChartKindBar, nil
	case ChartKindPie:
		return ChartKindPie, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q", s)
	}
}

// ChartConfig binds two columns of a result table to a chart drawn at OutputPath.
type ChartConfig struct {
	Kind           ChartKind
	Title          string
	XLabel         string // bar only
	YLabel         string // bar only
	CategoryColumn string
	ValueColumn    string
	OutputPath     string
	// LabelRotation in degrees for bar category labels. Nil lets the renderer
	// decide; a pointer to zero keeps labels horizontal.
	LabelRotation *float64
}

func (c ChartConfig) Validate() error {
	if _, err := ParseChartKind(string(c.Kind)); err != nil {
		return err
	}
	if c.CategoryColumn == "" {
		return fmt.Errorf("category column is required")
	}
	if c.ValueColumn == "" {
		return fmt.Errorf("value column is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Kind == ChartKindPie && (c.XLabel != "" || c.YLabel != "") {
		return fmt.Errorf("axis labels are not supported for pie charts")
	}
	return nil
}

// CheckColumns reports a configuration problem when the table lacks either bound column.
func (c ChartConfig) CheckColumns(table *ResultTable) error {
	for _, col := range []string{c.CategoryColumn, c.ValueColumn} {
		if !table.HasColumn(col) {
			return &InvalidChartDataError{
				Chart:  c.OutputPath,
				Reason: fmt.Sprintf("column %q is not in the result", col),
			}
		}
	}
	return nil
}
