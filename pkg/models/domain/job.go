package domain

import (
	"fmt"
	"time"
)

// ReportJob is one unit of work: run Spec, draw its result as Chart.
type ReportJob struct {
	Spec  QuerySpec
	Chart ChartConfig
}

func NewReportJob(spec QuerySpec, chart ChartConfig) (ReportJob, error) {
	if spec.Name() == "" {
		return ReportJob{}, fmt.Errorf("report job requires a query spec")
	}
	if err := chart.Validate(); err != nil {
		return ReportJob{}, fmt.Errorf("report %q: invalid chart config: %w", spec.Name(), err)
	}
	for _, col := range []string{chart.CategoryColumn, chart.ValueColumn} {
		if !spec.Expects(col) {
			return ReportJob{}, fmt.Errorf("report %q: chart column %q is not an expected column of the query",
				spec.Name(), col)
		}
	}
	return ReportJob{Spec: spec, Chart: chart}, nil
}

func (j ReportJob) Name() string {
	return j.Spec.Name()
}

type JobStatus string

const (
	JobStatusSuccess          JobStatus = "success"
	JobStatusQueryFailed      JobStatus = "query_failed"
	JobStatusSchemaMismatch   JobStatus = "schema_mismatch"
	JobStatusValidationFailed JobStatus = "validation_failed"
	JobStatusRenderFailed     JobStatus = "render_failed"
	JobStatusPublishFailed    JobStatus = "publish_failed"
)

type JobOutcome struct {
	Job        string
	Kind       ChartKind
	Status     JobStatus
	Detail     string
	OutputPath string
	// PublishedURL is set when the artifact was uploaded to an object store.
	PublishedURL string
	Rows         int
	Duration     time.Duration
}

func (o JobOutcome) Succeeded() bool {
	return o.Status == JobStatusSuccess
}

// RunOutcome holds one entry per job, in the order the jobs were given.
type RunOutcome struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Jobs       []JobOutcome
}

func (r RunOutcome) Succeeded() bool {
	for _, j := range r.Jobs {
		if !j.Succeeded() {
			return false
		}
	}
	return true
}

func (r RunOutcome) Failed() []JobOutcome {
	var failed []JobOutcome
	for _, j := range r.Jobs {
		if !j.Succeeded() {
			failed = append(failed, j)
		}
	}
	return failed
}

func (r RunOutcome) Counts() map[JobStatus]int {
	counts := make(map[JobStatus]int)
	for _, j := range r.Jobs {
		counts[j.Status]++
	}
	return counts
}
