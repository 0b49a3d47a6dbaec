package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use text, json or yaml)", s)
	}
}

type TableConfig struct {
	JobWidth    int
	StatusWidth int
	RowsWidth   int
	OutputWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		JobWidth:    32,
		StatusWidth: 17,
		RowsWidth:   6,
		OutputWidth: 48,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type jobView struct {
	Job        string `json:"job" yaml:"job"`
	Kind       string `json:"kind" yaml:"kind"`
	Status     string `json:"status" yaml:"status"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Output     string `json:"output" yaml:"output"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Rows       int    `json:"rows" yaml:"rows"`
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`
}

type runView struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Succeeded  bool           `json:"succeeded" yaml:"succeeded"`
	Counts     map[string]int `json:"counts" yaml:"counts"`
	Jobs       []jobView      `json:"jobs" yaml:"jobs"`
}

func newRunView(run domain.RunOutcome) runView {
	v := runView{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Succeeded:  run.Succeeded(),
		Counts:     map[string]int{},
		Jobs:       make([]jobView, 0, len(run.Jobs)),
	}
	for status, n := range run.Counts() {
		v.Counts[string(status)] = n
	}
	for _, j := range run.Jobs {
		v.Jobs = append(v.Jobs, jobView{
			Job:        j.Job,
			Kind:       string(j.Kind),
			Status:     string(j.Status),
			Detail:     j.Detail,
			Output:     j.OutputPath,
			URL:        j.PublishedURL,
			Rows:       j.Rows,
			DurationMs: j.Duration.Milliseconds(),
		})
	}
	return v
}

// Handle writes one run in the requested format.
func (c *Reporter) Handle(run domain.RunOutcome, format Format) error {
	view := newRunView(run)
	switch format {
	case FormatJSON:
		return c.json(view)
	case FormatYAML:
		return c.yaml(view)
	default:
		return c.text([]runView{view})
	}
}

// HandleHistory writes past runs, newest first.
func (c *Reporter) HandleHistory(runs []domain.RunOutcome, format Format) error {
	views := make([]runView, 0, len(runs))
	for _, r := range runs {
		views = append(views, newRunView(r))
	}
	switch format {
	case FormatJSON:
		return c.json(views)
	case FormatYAML:
		return c.yaml(views)
	default:
		if len(views) == 0 {
			_, err := fmt.Fprintln(c.writer, "No recorded runs.")
			return err
		}
		return c.text(views)
	}
}

func (c *Reporter) json(v any) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func (c *Reporter) yaml(v any) error {
	enc := yaml.NewEncoder(c.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func (c *Reporter) text(runs []runView) error {
	funcMap := template.FuncMap{
		"formatRow": func(job, status string, rows any, output string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %-*s |",
				c.config.JobWidth, truncate(job, c.config.JobWidth),
				c.config.StatusWidth, status,
				c.config.RowsWidth, rows,
				c.config.OutputWidth, truncate(output, c.config.OutputWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.JobWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.RowsWidth+2),
				strings.Repeat("-", c.config.OutputWidth+2))
		},
		"duration": func(start, end time.Time) string {
			return end.Sub(start).Round(time.Millisecond).String()
		},
	}

	tmpl := `{{range .}}
Run {{.RunID}} ({{.StartedAt.Format "2006-01-02 15:04:05"}}, {{duration .StartedAt .FinishedAt}})

{{separator}}
{{formatRow "Report" "Status" "Rows" "Output"}}
{{separator}}
{{range .Jobs}}{{formatRow .Job .Status .Rows .Output}}
{{end}}{{separator}}
{{range .Jobs}}{{if .Detail}}  {{.Job}}: {{.Detail}}
{{end}}{{end}}{{if .Succeeded}}All {{len .Jobs}} reports succeeded.{{else}}Some reports failed.{{end}}
{{end}}`

	t, err := template.New("run").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, runs)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// HandleCatalog lists configured reports.
func (c *Reporter) HandleCatalog(jobs []domain.ReportJob) error {
	tmpl := `{{range .}}{{printf "%-32s" .Name}} {{printf "%-4s" .Chart.Kind}} {{.Chart.OutputPath}}
{{end}}`
	t, err := template.New("catalog").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, jobs)
}
