package store

import "time"

type ReportRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Failed     int
}

type JobOutcome struct {
	RunID        string
	Position     int
	Job          string
	Kind         string
	Status       string
	Detail       string
	OutputPath   string
	PublishedURL string
	Rows         int
	DurationMs   int64
}
