package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

// Definition is the configuration form of a report job.
type Definition struct {
	Name    string          `mapstructure:"name" yaml:"name"`
	SQL     string          `mapstructure:"sql" yaml:"sql"`
	Columns []string        `mapstructure:"columns" yaml:"columns"`
	Chart   ChartDefinition `mapstructure:"chart" yaml:"chart"`
}

type ChartDefinition struct {
	Kind     string `mapstructure:"kind" yaml:"kind"`
	Title    string `mapstructure:"title" yaml:"title"`
	XLabel   string `mapstructure:"x_label" yaml:"x_label,omitempty"`
	YLabel   string `mapstructure:"y_label" yaml:"y_label,omitempty"`
	Category string `mapstructure:"category" yaml:"category"`
	Value    string `mapstructure:"value" yaml:"value"`
	Output   string `mapstructure:"output" yaml:"output"`
	// Rotation is unset for automatic label rotation.
	Rotation *float64 `mapstructure:"rotation" yaml:"rotation,omitempty"`
}

// Build turns definitions into jobs, keeping their order. Relative output
// paths are placed under outputDir. All problems are reported together.
func Build(defs []Definition, outputDir string) ([]domain.ReportJob, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("no reports defined")
	}

	var (
		jobs    = make([]domain.ReportJob, 0, len(defs))
		errs    []error
		names   = make(map[string]struct{}, len(defs))
		outputs = make(map[string]string, len(defs))
	)
	for i, def := range defs {
		job, err := build(def, outputDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("report #%d: %w", i+1, err))
			continue
		}
		if _, dup := names[job.Name()]; dup {
			errs = append(errs, fmt.Errorf("report #%d: duplicate report name %q", i+1, job.Name()))
			continue
		}
		if other, dup := outputs[job.Chart.OutputPath]; dup {
			errs = append(errs, fmt.Errorf("report %q: output %s is already written by %q",
				job.Name(), job.Chart.OutputPath, other))
			continue
		}
		names[job.Name()] = struct{}{}
		outputs[job.Chart.OutputPath] = job.Name()
		jobs = append(jobs, job)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return jobs, nil
}

func build(def Definition, outputDir string) (domain.ReportJob, error) {
	spec, err := domain.NewQuerySpec(def.Name, def.SQL, def.Columns...)
	if err != nil {
		return domain.ReportJob{}, err
	}

	kind, err := domain.ParseChartKind(def.Chart.Kind)
	if err != nil {
		return domain.ReportJob{}, fmt.Errorf("report %q: %w", def.Name, err)
	}

	output := def.Chart.Output
	if output == "" {
		output = def.Name + ".png"
	}
	if !filepath.IsAbs(output) && outputDir != "" {
		output = filepath.Join(outputDir, output)
	}

	return domain.NewReportJob(spec, domain.ChartConfig{
		Kind:           kind,
		Title:          def.Chart.Title,
		XLabel:         def.Chart.XLabel,
		YLabel:         def.Chart.YLabel,
		CategoryColumn: def.Chart.Category,
		ValueColumn:    def.Chart.Value,
		OutputPath:     output,
		LabelRotation:  def.Chart.Rotation,
	})
}

// Select keeps the named jobs, in their original order.
func Select(jobs []domain.ReportJob, names []string) ([]domain.ReportJob, error) {
	if len(names) == 0 {
		return jobs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = false
	}

	var selected []domain.ReportJob
	for _, job := range jobs {
		if _, ok := wanted[job.Name()]; ok {
			wanted[job.Name()] = true
			selected = append(selected, job)
		}
	}

	var unknown []string
	for n, found := range wanted {
		if !found {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown reports: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
