package adapters

import (
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
)

func MapDomainRunToStore(r domain.RunOutcome) store.ReportRun {
	failed := len(r.Failed())
	return store.ReportRun{
		ID:         r.RunID,
		StartedAt:  r.StartedAt.UTC(),
		FinishedAt: r.FinishedAt.UTC(),
		Succeeded:  len(r.Jobs) - failed,
		Failed:     failed,
	}
}

func MapDomainJobOutcomesToStore(r domain.RunOutcome) []store.JobOutcome {
	outcomes := make([]store.JobOutcome, 0, len(r.Jobs))
	for i, j := range r.Jobs {
		outcomes = append(outcomes, store.JobOutcome{
			RunID:        r.RunID,
			Position:     i,
			Job:          j.Job,
			Kind:         string(j.Kind),
			Status:       string(j.Status),
			Detail:       j.Detail,
			OutputPath:   j.OutputPath,
			PublishedURL: j.PublishedURL,
			Rows:         j.Rows,
			DurationMs:   j.Duration.Milliseconds(),
		})
	}
	return outcomes
}

func MapStoreJobOutcomeToDomain(o store.JobOutcome) domain.JobOutcome {
	return domain.JobOutcome{
		Job:          o.Job,
		Kind:         domain.ChartKind(o.Kind),
		Status:       domain.JobStatus(o.Status),
		Detail:       o.Detail,
		OutputPath:   o.OutputPath,
		PublishedURL: o.PublishedURL,
		Rows:         o.Rows,
		Duration:     time.Duration(o.DurationMs) * time.Millisecond,
	}
}

func MapStoreRunToDomain(r store.ReportRun, outcomes []store.JobOutcome) domain.RunOutcome {
	jobs := make([]domain.JobOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		jobs = append(jobs, MapStoreJobOutcomeToDomain(o))
	}
	return domain.RunOutcome{
		RunID:      r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Jobs:       jobs,
	}
}
