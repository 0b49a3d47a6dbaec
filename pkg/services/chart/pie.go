package chart

import (
	"bytes"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
)

type PieRenderer struct {
	Width  int
	Height int
}

// Slice is one wedge of a pie chart.
type Slice struct {
	Label   string
	Value   float64
	Share   float64
	Percent string
}

// PieSlices computes each row's share of the value column total. Negative
// values and an all-zero column are rejected.
func PieSlices(table *domain.ResultTable, cfg domain.ChartConfig) ([]Slice, error) {
	if err := cfg.CheckColumns(table); err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, emptyTable(cfg)
	}

	labels, nums, err := values(table, cfg)
	if err != nil {
		return nil, err
	}

	var total float64
	for i, v := range nums {
		if v < 0 {
			return nil, &domain.InvalidChartDataError{
				Chart:  cfg.OutputPath,
				Reason: fmt.Sprintf("negative value %v for %q", v, labels[i]),
			}
		}
		total += v
	}
	if total == 0 {
		return nil, &domain.InvalidChartDataError{Chart: cfg.OutputPath, Reason: "values sum to zero"}
	}

	slices := make([]Slice, len(nums))
	for i, v := range nums {
		share := v / total
		slices[i] = Slice{
			Label:   labels[i],
			Value:   v,
			Share:   share,
			Percent: fmt.Sprintf("%.1f%%", share*100),
		}
	}
	return slices, nil
}

func (pr PieRenderer) Render(table *domain.ResultTable, cfg domain.ChartConfig) error {
	slices, err := PieSlices(table, cfg)
	if err != nil {
		return err
	}

	wedges := make([]gochart.Value, len(slices))
	for i, s := range slices {
		wedges[i] = gochart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, s.Percent),
			Value: s.Value,
		}
	}

	graph := gochart.PieChart{
		Title:  cfg.Title,
		Width:  pr.Width,
		Height: pr.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Values: wedges,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return &domain.RenderError{Path: cfg.OutputPath, Err: err}
	}
	return writeFile(cfg.OutputPath, buf.Bytes())
}
