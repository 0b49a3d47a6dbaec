package report

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/catalog"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const influencerSchema = `
CREATE TABLE Influencer (influencer_id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE Performance_Metrics (metric_id INTEGER PRIMARY KEY, influencer_id INTEGER, roi REAL);
CREATE TABLE Payments (payment_id INTEGER PRIMARY KEY, status TEXT NOT NULL);
CREATE TABLE Campaigns (campaign_id INTEGER PRIMARY KEY, campaign_name TEXT NOT NULL);
CREATE TABLE Deliverables (deliverable_id INTEGER PRIMARY KEY, campaign_id INTEGER, status TEXT);

INSERT INTO Influencer VALUES (1, 'Alice'), (2, 'Bob');
INSERT INTO Performance_Metrics VALUES (1, 1, 4.0), (2, 1, 4.4), (3, 2, 3.1);
INSERT INTO Payments VALUES (1, 'Paid'), (2, 'Paid'), (3, 'Pending');
INSERT INTO Campaigns VALUES (1, 'Spring Launch'), (2, 'Holiday Push');
INSERT INTO Deliverables VALUES (1, 1, 'Approved'), (2, 1, 'Pending'), (3, 2, 'Approved');
`

// influencerFixture is a seeded SQLite file shaped like the influencer tracker.
type influencerFixture struct {
	settings  connection.Settings
	outputDir string
}

func newInfluencerFixture(t *testing.T) *influencerFixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "influencer.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(influencerSchema)
	require.NoError(t, err)

	return &influencerFixture{
		settings:  connection.Settings{Driver: connection.DriverSQLite, Path: path},
		outputDir: filepath.Join(dir, "charts"),
	}
}

func (f *influencerFixture) jobs(t *testing.T, defs []catalog.Definition) []domain.ReportJob {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.outputDir, 0o755))
	jobs, err := catalog.Build(defs, f.outputDir)
	require.NoError(t, err)
	return jobs
}

func TestRunner_Run_InfluencerReports(t *testing.T) {
	f := newInfluencerFixture(t)
	jobs := f.jobs(t, catalog.Default())

	r := NewRunner(connection.NewRegistry(connection.Builtin()))
	run, err := r.Run(context.Background(), f.settings, jobs)
	require.NoError(t, err)

	require.Len(t, run.Jobs, 3)
	for _, outcome := range run.Jobs {
		assert.Equal(t, domain.JobStatusSuccess, outcome.Status, outcome.Detail)
		assert.FileExists(t, outcome.OutputPath)
	}
	assert.Equal(t, 2, run.Jobs[0].Rows)
	assert.Equal(t, 2, run.Jobs[1].Rows)
}

func TestRunner_Run_MiddleJobSchemaMismatch(t *testing.T) {
	f := newInfluencerFixture(t)

	defs := catalog.Default()
	defs[1].SQL = "SELECT status, COUNT(*) AS total FROM Payments GROUP BY status"
	jobs := f.jobs(t, defs)

	run, err := NewRunner(connection.NewRegistry(connection.Builtin())).Run(context.Background(), f.settings, jobs)
	require.NoError(t, err)

	require.Len(t, run.Jobs, 3)
	assert.Equal(t, domain.JobStatusSuccess, run.Jobs[0].Status)
	assert.Equal(t, domain.JobStatusSchemaMismatch, run.Jobs[1].Status)
	assert.Contains(t, run.Jobs[1].Detail, "count")
	assert.Equal(t, domain.JobStatusSuccess, run.Jobs[2].Status)

	assert.FileExists(t, jobs[0].Chart.OutputPath)
	assert.NoFileExists(t, jobs[1].Chart.OutputPath)
	assert.FileExists(t, jobs[2].Chart.OutputPath)
}

func TestRunner_Run_MissingColumnInSQL(t *testing.T) {
	f := newInfluencerFixture(t)

	defs := catalog.Default()
	defs[1].SQL = "SELECT status, amount AS count FROM Payments"
	jobs := f.jobs(t, defs)

	run, err := NewRunner(connection.NewRegistry(connection.Builtin())).Run(context.Background(), f.settings, jobs)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusQueryFailed, run.Jobs[1].Status)
	assert.Equal(t, domain.JobStatusSuccess, run.Jobs[2].Status)
}

func TestRunner_Run_UnreachableDatabase(t *testing.T) {
	dir := t.TempDir()
	jobs, err := catalog.Build(catalog.Default(), dir)
	require.NoError(t, err)

	settings := connection.Settings{Driver: connection.DriverSQLite, Path: filepath.Join(dir, "missing.db")}
	run, err := NewRunner(connection.NewRegistry(connection.Builtin())).Run(context.Background(), settings, jobs)

	var connErr *domain.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Empty(t, run.Jobs)
	for _, job := range jobs {
		assert.NoFileExists(t, job.Chart.OutputPath)
	}
}
