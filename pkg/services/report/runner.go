package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/chart"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryRecorder persists finished runs.
type HistoryRecorder interface {
	Record(ctx context.Context, run domain.RunOutcome) error
}

type RunnerConfig struct {
	// JobTimeout bounds each job; zero means no deadline.
	JobTimeout time.Duration
}

// Runner executes report jobs one after another against a single connection.
type Runner struct {
	registry  connection.Registry
	rds       connection.DBInstanceDescriber
	renderer  RenderFunc
	publisher Publisher
	history   HistoryRecorder
	config    RunnerConfig
	now       func() time.Time
	newID     func() string
}

type Option func(*Runner)

func WithRenderer(fn RenderFunc) Option {
	return func(r *Runner) { r.renderer = fn }
}

func WithPublisher(p Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

func WithHistory(h HistoryRecorder) Option {
	return func(r *Runner) { r.history = h }
}

func WithRDS(api connection.DBInstanceDescriber) Option {
	return func(r *Runner) { r.rds = api }
}

func WithConfig(cfg RunnerConfig) Option {
	return func(r *Runner) { r.config = cfg }
}

func NewRunner(registry connection.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		renderer: chart.Render,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run opens the connection, runs every job and closes the connection. Only a
// connection failure is returned as an error; in that case no job has run.
func (r *Runner) Run(ctx context.Context, settings connection.Settings, jobs []domain.ReportJob) (domain.RunOutcome, error) {
	logger := zerolog.Ctx(ctx)

	if settings.RDSInstance != "" {
		if r.rds == nil {
			return domain.RunOutcome{}, &domain.ConnectionError{
				Driver: settings.Driver,
				Err:    fmt.Errorf("rds instance %s configured without an AWS client", settings.RDSInstance),
			}
		}
		resolved, err := connection.ResolveRDSEndpoint(ctx, r.rds, settings)
		if err != nil {
			return domain.RunOutcome{}, err
		}
		settings = resolved
	}

	handle, err := connection.Open(ctx, r.registry, settings)
	if err != nil {
		return domain.RunOutcome{}, err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database connection")
		}
	}()

	return r.RunAll(ctx, handle, jobs), nil
}

// RunAll attempts every job exactly once, in order, and returns one outcome per job.
func (r *Runner) RunAll(ctx context.Context, exec Executor, jobs []domain.ReportJob) domain.RunOutcome {
	run := domain.RunOutcome{
		RunID:     r.newID(),
		StartedAt: r.now(),
		Jobs:      make([]domain.JobOutcome, 0, len(jobs)),
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", run.RunID).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Int("jobs", len(jobs)).Msg("report run started")

	for _, job := range jobs {
		run.Jobs = append(run.Jobs, r.runJob(ctx, exec, run.RunID, job))
	}
	run.FinishedAt = r.now()

	logger.Info().
		Int("failed", len(run.Failed())).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("report run finished")

	if r.history != nil {
		if err := r.history.Record(ctx, run); err != nil {
			logger.Warn().Err(err).Msg("failed to record run history")
		}
	}

	return run
}
