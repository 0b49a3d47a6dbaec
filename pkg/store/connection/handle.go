package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

var ErrClosed = errors.New("connection is closed")

// Handle owns a single database connection for the length of a run. Queries are
// serialised; at most one is in flight at any time.
type Handle struct {
	driver string
	db     *sql.DB

	mu     sync.Mutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// Open dials the database named by settings.Driver and verifies it is reachable.
// Any failure is reported as a *domain.ConnectionError.
func Open(ctx context.Context, registry Registry, settings Settings) (*Handle, error) {
	dialer, err := registry.Lookup(settings.Driver)
	if err != nil {
		return nil, &domain.ConnectionError{Driver: settings.Driver, Err: err}
	}

	db, err := dialer(ctx, settings)
	if err != nil {
		return nil, &domain.ConnectionError{Driver: settings.Driver, Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, settings.connectTimeout())
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &domain.ConnectionError{Driver: settings.Driver, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("database", settings.String()).Msg("database connection opened")
	return Wrap(settings.Driver, db), nil
}

// Wrap adopts an already opened pool.
func Wrap(driver string, db *sql.DB) *Handle {
	return &Handle{driver: driver, db: db}
}

func (h *Handle) Driver() string {
	return h.driver
}

// Execute runs spec and checks that the result carries every expected column.
func (h *Handle) Execute(ctx context.Context, spec domain.QuerySpec) (*domain.ResultTable, error) {
	table, err := h.query(ctx, spec.Name(), spec.SQL())
	if err != nil {
		return nil, err
	}
	if err := spec.CheckTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

func (h *Handle) Query(ctx context.Context, query string) (*domain.ResultTable, error) {
	return h.query(ctx, query, query)
}

func (h *Handle) query(ctx context.Context, label, query string) (*domain.ResultTable, error) {
	logger := zerolog.Ctx(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, &domain.QueryError{Query: label, Err: ErrClosed}
	}

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.QueryError{Query: label, Err: err}
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Str("query", label).Msg("failed to close query rows")
		}
	}(rows)

	table, err := scanTable(rows)
	if err != nil {
		return nil, &domain.QueryError{Query: label, Err: err}
	}

	logger.Debug().Str("query", label).Int("rows", table.Len()).Msg("query executed")
	return table, nil
}

func scanTable(rows *sql.Rows) (*domain.ResultTable, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	table := &domain.ResultTable{
		Columns:     columns,
		ColumnTypes: make([]string, len(columns)),
	}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			table.ColumnTypes[i] = ct.DatabaseTypeName()
		}
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}

	return table, nil
}

// normalizeValue copies driver-owned byte slices; MySQL returns DECIMAL and
// VARCHAR columns as []byte.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Close releases the connection. It is safe to call more than once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		h.closeErr = h.db.Close()
	})
	return h.closeErr
}
