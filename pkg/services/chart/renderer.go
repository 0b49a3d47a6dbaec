package chart

import (
	"fmt"
	"math"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Renderer draws a result table as an image at cfg.OutputPath, replacing any
// file already there. On failure no file is written.
type Renderer interface {
	Render(table *domain.ResultTable, cfg domain.ChartConfig) error
}

func NewRenderer(kind domain.ChartKind) (Renderer, error) {
	switch kind {
	case domain.ChartKindBar:
		return BarRenderer{Width: defaultWidth, Height: defaultHeight}, nil
	case domain.ChartKindPie:
		return PieRenderer{Width: defaultWidth, Height: defaultHeight}, nil
	default:
		return nil, &domain.InvalidChartDataError{Reason: fmt.Sprintf("unsupported chart kind %q", kind)}
	}
}

// Render dispatches on cfg.Kind.
func Render(table *domain.ResultTable, cfg domain.ChartConfig) error {
	r, err := NewRenderer(cfg.Kind)
	if err != nil {
		return err
	}
	return r.Render(table, cfg)
}

func values(table *domain.ResultTable, cfg domain.ChartConfig) ([]string, []float64, error) {
	labels := make([]string, table.Len())
	nums := make([]float64, table.Len())
	for i := range table.Rows {
		label, err := table.String(i, cfg.CategoryColumn)
		if err != nil {
			return nil, nil, &domain.InvalidChartDataError{Chart: cfg.OutputPath, Reason: err.Error()}
		}
		v, err := table.Float(i, cfg.ValueColumn)
		if err != nil {
			return nil, nil, &domain.InvalidChartDataError{Chart: cfg.OutputPath, Reason: err.Error()}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, &domain.InvalidChartDataError{
				Chart:  cfg.OutputPath,
				Reason: fmt.Sprintf("row %d column %q is not a finite number", i, cfg.ValueColumn),
			}
		}
		labels[i] = label
		nums[i] = v
	}
	return labels, nums, nil
}

func emptyTable(cfg domain.ChartConfig) error {
	return &domain.RenderError{
		Path:   cfg.OutputPath,
		Reason: fmt.Sprintf("%s chart requires at least one row", cfg.Kind),
	}
}
