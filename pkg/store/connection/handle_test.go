package connection

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roiQuery = `SELECT i.name, ROUND(AVG(pm.roi), 2) AS avg_roi FROM Influencer i`

type fixture struct {
	db     *sql.DB
	mock   sqlmock.Sqlmock
	handle *Handle
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:     db,
		mock:   mock,
		handle: Wrap("sqlmock", db),
	}
}

func roiRows() *sqlmock.Rows {
	return sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("avg_roi").OfType("DECIMAL", ""),
	)
}

func TestHandle_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		spec, err := domain.NewQuerySpec("top_influencers_roi", roiQuery, "name", "avg_roi")
		require.NoError(t, err)

		f.mock.ExpectQuery(regexp.QuoteMeta(roiQuery)).
			WillReturnRows(roiRows().AddRow("Alice", []byte("4.20")).AddRow("Bob", 3.1))

		table, err := f.handle.Execute(ctx, spec)
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "avg_roi"}, table.Columns)
		assert.Equal(t, []string{"VARCHAR", "DECIMAL"}, table.ColumnTypes)
		require.Equal(t, 2, table.Len())

		name, err := table.String(0, "name")
		require.NoError(t, err)
		assert.Equal(t, "Alice", name)

		roi, err := table.Float(0, "avg_roi")
		require.NoError(t, err)
		assert.Equal(t, 4.2, roi)

		name, err = table.String(1, "name")
		require.NoError(t, err)
		assert.Equal(t, "Bob", name)

		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("missing expected column", func(t *testing.T) {
		f := setupFixture(t)
		spec, err := domain.NewQuerySpec("top_influencers_roi", roiQuery, "name", "avg_roi", "influencer_id")
		require.NoError(t, err)

		f.mock.ExpectQuery(regexp.QuoteMeta(roiQuery)).
			WillReturnRows(roiRows().AddRow("Alice", 4.2))

		table, err := f.handle.Execute(ctx, spec)
		assert.Nil(t, table)

		var mismatch *domain.SchemaMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "influencer_id", mismatch.Missing)
	})

	t.Run("server rejects query", func(t *testing.T) {
		f := setupFixture(t)
		spec, err := domain.NewQuerySpec("payments", "SELECT status FROM Paymentz", "status")
		require.NoError(t, err)

		f.mock.ExpectQuery("SELECT status FROM Paymentz").
			WillReturnError(errors.New("Error 1146: Table 'influencer_tracker.Paymentz' doesn't exist"))

		_, err = f.handle.Execute(ctx, spec)

		var queryErr *domain.QueryError
		require.True(t, errors.As(err, &queryErr))
		assert.Equal(t, "payments", queryErr.Query)
		assert.Equal(t, domain.JobStatusQueryFailed, domain.StatusForError(err))
	})

	t.Run("row iteration error", func(t *testing.T) {
		f := setupFixture(t)
		spec, err := domain.NewQuerySpec("roi", roiQuery, "name", "avg_roi")
		require.NoError(t, err)

		f.mock.ExpectQuery(regexp.QuoteMeta(roiQuery)).
			WillReturnRows(roiRows().AddRow("Alice", 4.2).RowError(0, errors.New("connection reset")))

		_, err = f.handle.Execute(ctx, spec)
		var queryErr *domain.QueryError
		assert.True(t, errors.As(err, &queryErr))
	})
}

func TestHandle_Close(t *testing.T) {
	f := setupFixture(t)
	f.mock.ExpectClose()

	require.NoError(t, f.handle.Close())
	require.NoError(t, f.handle.Close(), "close must be idempotent")
	assert.NoError(t, f.mock.ExpectationsWereMet())

	_, err := f.handle.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, NewRegistry(nil), Settings{Driver: "oracle"})
		var connErr *domain.ConnectionError
		require.True(t, errors.As(err, &connErr))
		assert.Equal(t, "oracle", connErr.Driver)
	})

	t.Run("dial failure", func(t *testing.T) {
		registry := NewRegistry(map[string]Dialer{
			"fake": func(context.Context, Settings) (*sql.DB, error) {
				return nil, errors.New("no route to host")
			},
		})
		_, err := Open(ctx, registry, Settings{Driver: "fake"})
		var connErr *domain.ConnectionError
		require.True(t, errors.As(err, &connErr))
		assert.ErrorContains(t, err, "no route to host")
	})

	t.Run("ping failure closes the pool", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("Error 1045: Access denied for user 'dbms_user'"))
		mock.ExpectClose()

		registry := NewRegistry(map[string]Dialer{
			"fake": func(context.Context, Settings) (*sql.DB, error) { return db, nil },
		})
		_, err = Open(ctx, registry, Settings{Driver: "fake"})

		var connErr *domain.ConnectionError
		require.True(t, errors.As(err, &connErr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing()

		registry := NewRegistry(map[string]Dialer{
			"fake": func(context.Context, Settings) (*sql.DB, error) { return db, nil },
		})
		handle, err := Open(ctx, registry, Settings{Driver: "fake"})
		require.NoError(t, err)
		assert.Equal(t, "fake", handle.Driver())

		mock.ExpectClose()
		require.NoError(t, handle.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
