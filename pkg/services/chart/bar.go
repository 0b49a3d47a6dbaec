package chart

import (
	"bytes"
	"math"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	longLabel            = 10
	defaultLabelRotation = 30.0
)

type BarRenderer struct {
	Width  int
	Height int
}

func (br BarRenderer) Render(table *domain.ResultTable, cfg domain.ChartConfig) error {
	graph, err := br.chart(table, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return &domain.RenderError{Path: cfg.OutputPath, Err: err}
	}
	return writeFile(cfg.OutputPath, buf.Bytes())
}

// chart lays out one bar per row, in table order.
func (br BarRenderer) chart(table *domain.ResultTable, cfg domain.ChartConfig) (gochart.BarChart, error) {
	if err := cfg.CheckColumns(table); err != nil {
		return gochart.BarChart{}, err
	}
	if table.Len() == 0 {
		return gochart.BarChart{}, emptyTable(cfg)
	}

	labels, nums, err := values(table, cfg)
	if err != nil {
		return gochart.BarChart{}, err
	}

	bars := make([]gochart.Value, len(nums))
	for i := range nums {
		bars[i] = gochart.Value{Label: labels[i], Value: nums[i]}
	}

	return gochart.BarChart{
		Title:  cfg.Title,
		Width:  br.Width,
		Height: br.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 40, Right: 20, Bottom: 60},
		},
		BarWidth:     barWidth(br.Width, len(bars)),
		UseBaseValue: true,
		BaseValue:    0,
		XAxis: gochart.Style{
			TextRotationDegrees: labelRotation(labels, cfg),
		},
		YAxis: gochart.YAxis{
			Range: yRange(nums),
		},
		Bars: bars,
		Elements: []gochart.Renderable{
			xLabel(cfg.XLabel, br.Height),
			yLabel(cfg.YLabel),
		},
	}, nil
}

// labelRotation keeps explicit rotations and tilts long category labels.
func labelRotation(labels []string, cfg domain.ChartConfig) float64 {
	if cfg.LabelRotation != nil {
		return *cfg.LabelRotation
	}
	for _, l := range labels {
		if len([]rune(l)) > longLabel {
			return defaultLabelRotation
		}
	}
	return 0
}

// yRange always includes zero so bar heights stay comparable.
func yRange(nums []float64) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range nums {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func barWidth(width, n int) int {
	w := (width - 100) / (2 * n)
	switch {
	case w > 80:
		return 80
	case w < 4:
		return 4
	default:
		return w
	}
}

func xLabel(text string, height int) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		if text == "" {
			return
		}
		style := gochart.Style{FontSize: 11, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)

		box := r.MeasureText(text)
		x := canvas.Left + (canvas.Width()-box.Width())/2
		r.Text(text, x, height-10)
	}
}

func yLabel(text string) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		if text == "" {
			return
		}
		style := gochart.Style{FontSize: 11, FontColor: drawing.ColorBlack}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)

		box := r.MeasureText(text)
		r.SetTextRotation(-math.Pi / 2)
		defer r.ClearTextRotation()
		r.Text(text, 16, canvas.Top+(canvas.Height()+box.Width())/2)
	}
}
