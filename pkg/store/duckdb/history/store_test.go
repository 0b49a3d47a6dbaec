package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func sampleRun(id string, started time.Time) (store.ReportRun, []store.JobOutcome) {
	run := store.ReportRun{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Succeeded:  2,
		Failed:     1,
	}
	outcomes := []store.JobOutcome{
		{RunID: id, Position: 0, Job: "top_influencers_roi", Kind: "bar", Status: "success",
			OutputPath: "out/top_influencers_roi.png", Rows: 5, DurationMs: 120},
		{RunID: id, Position: 1, Job: "payment_status_distribution", Kind: "pie", Status: "schema_mismatch",
			Detail: `query "payment_status_distribution": missing expected column "count"`, DurationMs: 15},
		{RunID: id, Position: 2, Job: "campaign_completion_rate", Kind: "bar", Status: "success",
			OutputPath: "out/campaign_completion_rate.png", PublishedURL: "s3://reports/run/campaign_completion_rate.png",
			Rows: 3, DurationMs: 98},
	}
	return run, outcomes
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_AddRun(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	run, outcomes := sampleRun("run-1", started)
	require.NoError(t, f.store.AddRun(ctx, run, outcomes))

	runs, err := f.store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.True(t, started.Equal(runs[0].StartedAt))
	assert.Equal(t, 2, runs[0].Succeeded)
	assert.Equal(t, 1, runs[0].Failed)

	got, err := f.store.ListOutcomes(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, outcomes, got)
}

func TestStore_AddRun_DuplicateRollsBack(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	run, outcomes := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, f.store.AddRun(ctx, run, outcomes))

	err := f.store.AddRun(ctx, run, outcomes[:1])
	require.Error(t, err)

	var count int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM report_job_outcomes").Scan(&count))
	assert.Equal(t, len(outcomes), count)
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "middle", "new"} {
		run, outcomes := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, f.store.AddRun(ctx, run, outcomes))
	}

	runs, err := f.store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)

	none, err := f.store.ListOutcomes(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.duckdb")

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)
	run, outcomes := sampleRun("run-1", time.Now().UTC())
	require.NoError(t, s.AddRun(ctx, run, outcomes))
	require.NoError(t, db.Close())

	db, err = duckdb.NewDB(duckdb.Settings{DbPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err = NewStore(db)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
