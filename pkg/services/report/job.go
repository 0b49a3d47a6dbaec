package report

import (
	"context"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Executor runs a query spec and returns its checked result.
type Executor interface {
	Execute(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error)
}

// RenderFunc draws table according to cfg.
type RenderFunc func(table *domain.ResultTable, cfg domain.ChartConfig) error

// Publisher uploads a rendered chart and returns where it can be found.
type Publisher interface {
	Publish(ctx context.Context, runID, path string) (string, error)
}

// runJob executes one job. Failures never escape: they become the outcome status.
func (r *Runner) runJob(ctx context.Context, exec Executor, runID string, job domain.ReportJob) domain.JobOutcome {
	logger := zerolog.Ctx(ctx).With().
		Str("job", job.Name()).
		Str("kind", string(job.Chart.Kind)).
		Logger()
	ctx = logger.WithContext(ctx)

	start := r.now()
	outcome := domain.JobOutcome{
		Job:        job.Name(),
		Kind:       job.Chart.Kind,
		Status:     domain.JobStatusSuccess,
		OutputPath: job.Chart.OutputPath,
	}

	fail := func(err error) domain.JobOutcome {
		outcome.Status = domain.StatusForError(err)
		outcome.Detail = err.Error()
		outcome.Duration = r.now().Sub(start)
		logger.Error().Err(err).Str("status", string(outcome.Status)).Msg("report job failed")
		return outcome
	}

	if r.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.JobTimeout)
		defer cancel()
	}

	var table *domain.ResultTable
	err := guard(func() (err error) {
		table, err = exec.Execute(ctx, job.Spec)
		return err
	}, func(p any) error {
		return &domain.QueryError{Query: job.Name(), Err: fmt.Errorf("executor panicked: %v", p)}
	})
	if err != nil {
		return fail(err)
	}
	outcome.Rows = table.Len()

	if err := job.Chart.CheckColumns(table); err != nil {
		return fail(err)
	}

	err = guard(func() error {
		return r.renderer(table, job.Chart)
	}, func(p any) error {
		return &domain.RenderError{Path: job.Chart.OutputPath, Reason: fmt.Sprintf("renderer panicked: %v", p)}
	})
	if err != nil {
		return fail(err)
	}

	if r.publisher != nil {
		var url string
		err = guard(func() (err error) {
			url, err = r.publisher.Publish(ctx, runID, job.Chart.OutputPath)
			return err
		}, func(p any) error {
			return fmt.Errorf("publisher panicked: %v", p)
		})
		if err != nil {
			return fail(&domain.PublishError{Path: job.Chart.OutputPath, Err: err})
		}
		outcome.PublishedURL = url
	}

	outcome.Duration = r.now().Sub(start)
	logger.Info().
		Int("rows", outcome.Rows).
		Str("output", outcome.OutputPath).
		Dur("duration", outcome.Duration).
		Msg("report rendered")
	return outcome
}

// guard runs step and turns a panic into the error built by onPanic.
func guard(step func() error, onPanic func(p any) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = onPanic(p)
		}
	}()
	return step()
}
