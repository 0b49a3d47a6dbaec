package connection

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

const (
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DriverDuckDB     = "duckdb"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
)

// Dialer opens a pool for the given settings. It must not assume the server is
// reachable; Open pings afterwards.
type Dialer func(ctx context.Context, settings Settings) (*sql.DB, error)

// Registry manages database dialers by driver name
type Registry interface {
	// Register adds a new dialer
	Register(driver string, dialer Dialer) error
	// Lookup returns the dialer registered for driver
	Lookup(driver string) (Dialer, error)
	// Drivers returns the registered driver names, sorted
	Drivers() []string
}

type registry struct {
	mu      sync.RWMutex
	dialers map[string]Dialer
}

func NewRegistry(dialers map[string]Dialer) Registry {
	r := &registry{dialers: make(map[string]Dialer, len(dialers))}
	for name, d := range dialers {
		r.dialers[name] = d
	}
	return r
}

// Builtin returns the dialers shipped with report-atlas.
func Builtin() map[string]Dialer {
	return map[string]Dialer{
		DriverMySQL:      dialMySQL,
		DriverPostgres:   dialPostgres,
		DriverSQLite:     dialSQLite,
		DriverDuckDB:     dialDuckDB,
		DriverSnowflake:  dialSnowflake,
		DriverDatabricks: dialDatabricks,
	}
}

func (r *registry) Register(driver string, dialer Dialer) error {
	if driver == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if dialer == nil {
		return fmt.Errorf("dialer cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dialers[driver]; exists {
		return fmt.Errorf("driver %q is already registered", driver)
	}

	r.dialers[driver] = dialer
	return nil
}

func (r *registry) Lookup(driver string) (Dialer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dialer, exists := r.dialers[driver]
	if !exists {
		return nil, fmt.Errorf("driver %q is not registered", driver)
	}
	return dialer, nil
}

func (r *registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]string, 0, len(r.dialers))
	for name := range r.dialers {
		drivers = append(drivers, name)
	}
	sort.Strings(drivers)
	return drivers
}
