package connection

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	noop := func(context.Context, Settings) (*sql.DB, error) { return nil, nil }

	t.Run("builtin drivers", func(t *testing.T) {
		r := NewRegistry(Builtin())
		assert.Equal(t, []string{"databricks", "duckdb", "mysql", "postgres", "snowflake", "sqlite"}, r.Drivers())
	})

	t.Run("register and lookup", func(t *testing.T) {
		r := NewRegistry(nil)
		require.NoError(t, r.Register("fake", noop))

		d, err := r.Lookup("fake")
		require.NoError(t, err)
		assert.NotNil(t, d)
	})

	t.Run("duplicate", func(t *testing.T) {
		r := NewRegistry(map[string]Dialer{"fake": noop})
		assert.ErrorContains(t, r.Register("fake", noop), "already registered")
	})

	t.Run("invalid registration", func(t *testing.T) {
		r := NewRegistry(nil)
		assert.Error(t, r.Register("", noop))
		assert.Error(t, r.Register("fake", nil))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewRegistry(nil).Lookup("oracle")
		assert.ErrorContains(t, err, `driver "oracle" is not registered`)
	})
}
