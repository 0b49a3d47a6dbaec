package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ConnectionError is fatal for a run: no job can execute without a connection.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s database: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

type SchemaMismatchError struct {
	Query   string
	Missing string
	Got     []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("query %q result is missing expected column %q (got: %s)",
		e.Query, e.Missing, strings.Join(e.Got, ", "))
}

type InvalidChartDataError struct {
	Chart  string
	Reason string
}

func (e *InvalidChartDataError) Error() string {
	return fmt.Sprintf("invalid chart data for %s: %s", e.Chart, e.Reason)
}

type RenderError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("failed to render %s", e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

type PublishError struct {
	Path string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish %s: %v", e.Path, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// StatusForError maps a job failure onto the outcome status it is reported as.
func StatusForError(err error) JobStatus {
	var (
		schemaErr  *SchemaMismatchError
		queryErr   *QueryError
		dataErr    *InvalidChartDataError
		renderErr  *RenderError
		publishErr *PublishError
	)
	switch {
	case err == nil:
		return JobStatusSuccess
	case errors.As(err, &schemaErr):
		return JobStatusSchemaMismatch
	case errors.As(err, &queryErr):
		return JobStatusQueryFailed
	case errors.As(err, &dataErr):
		return JobStatusValidationFailed
	case errors.As(err, &publishErr):
		return JobStatusPublishFailed
	case errors.As(err, &renderErr):
		return JobStatusRenderFailed
	default:
		return JobStatusRenderFailed
	}
}
