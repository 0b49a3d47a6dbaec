package commands

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/catalog"
	"github.com/de-tools/report-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

// configFlags are shared by every command that reads the report configuration.
type configFlags struct {
	path      string
	outputDir string
	only      []string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "Path to the YAML configuration file")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory charts are written to (overrides output_dir)")
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "Run only the named reports (comma separated)")
}

func (f *configFlags) load() (*config.Config, []domain.ReportJob, error) {
	cfg, err := config.Load(f.path)
	if err != nil {
		return nil, nil, err
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}

	jobs, err := catalog.Build(cfg.Reports, cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	jobs, err = catalog.Select(jobs, f.only)
	if err != nil {
		return nil, nil, err
	}
	return cfg, jobs, nil
}
