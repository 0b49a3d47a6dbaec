package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/awscfg"
	"github.com/de-tools/report-atlas/pkg/services/history"
	"github.com/de-tools/report-atlas/pkg/services/publish"
	"github.com/de-tools/report-atlas/pkg/services/report"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	historystore "github.com/de-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrReportsFailed is returned by run when at least one report did not succeed.
var ErrReportsFailed = errors.New("one or more reports failed")

type RunCmd struct {
	flags       configFlags
	format      string
	historyPath string
	bucket      string
	jobTimeout  time.Duration
	registry    connection.Registry
	reporter    *export.Reporter
}

func NewRunCmd(registry connection.Registry, reporter *export.Reporter) *cobra.Command {
	rc := &RunCmd{registry: registry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reports and render their charts",
		RunE:  rc.run,
	}

	rc.flags.register(cmd)
	cmd.Flags().StringVarP(&rc.format, "format", "f", "text", "Outcome format (text, json, yaml)")
	cmd.Flags().StringVar(&rc.historyPath, "history", "", "DuckDB file recording run outcomes (overrides history.path)")
	cmd.Flags().StringVar(&rc.bucket, "s3-bucket", "", "Upload rendered charts to this bucket (overrides publish.bucket)")
	cmd.Flags().DurationVar(&rc.jobTimeout, "job-timeout", 0, "Deadline for each report (overrides job_timeout)")

	return cmd
}

func (rc *RunCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	format, err := export.ParseFormat(rc.format)
	if err != nil {
		return err
	}

	cfg, jobs, err := rc.flags.load()
	if err != nil {
		return err
	}
	if rc.historyPath != "" {
		cfg.History.Path = rc.historyPath
	}
	if rc.bucket != "" {
		cfg.Publish.Bucket = rc.bucket
	}
	if rc.jobTimeout > 0 {
		cfg.JobTimeout = rc.jobTimeout
	}

	if err := cfg.ResolveCredentials(ctx); err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := []report.Option{
		report.WithConfig(report.RunnerConfig{JobTimeout: cfg.JobTimeout}),
	}

	if cfg.Database.RDSInstance != "" {
		awsCfg, err := awscfg.LoadConfig(ctx, cfg.AWS)
		if err != nil {
			return err
		}
		opts = append(opts, report.WithRDS(awscfg.NewRDSClient(awsCfg)))
	}

	if cfg.Publish.Bucket != "" {
		publisher, err := publish.NewS3PublisherFromSettings(ctx, cfg.Publish)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		opts = append(opts, report.WithPublisher(publisher))
	}

	if cfg.History.Path != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.History.Path})
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer db.Close()

		store, err := historystore.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
		opts = append(opts, report.WithHistory(history.NewRecorder(store)))
	}

	logger.Info().Str("database", cfg.Database.String()).Int("reports", len(jobs)).Msg("starting report run")

	run, err := report.NewRunner(rc.registry, opts...).Run(ctx, cfg.Database, jobs)
	if err != nil {
		return fmt.Errorf("report run against %s aborted: %w", cfg.Database.String(), err)
	}

	if err := rc.reporter.Handle(run, format); err != nil {
		return err
	}
	if !run.Succeeded() {
		return fmt.Errorf("%w: %d of %d", ErrReportsFailed, len(run.Failed()), len(run.Jobs))
	}
	return nil
}
