package connection

import (
	"context"
	"database/sql"
	"fmt"

	dbsql "github.com/databricks/databricks-sql-go"
)

func dialDatabricks(_ context.Context, s Settings) (*sql.DB, error) {
	if s.Host == "" || s.HTTPPath == "" || s.Token == "" {
		return nil, fmt.Errorf("databricks requires host, http_path and token")
	}
	port := s.Port
	if port == 0 {
		port = 443
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(s.Host),
		dbsql.WithPort(port),
		dbsql.WithHTTPPath(s.HTTPPath),
		dbsql.WithAccessToken(s.Token),
		dbsql.WithTimeout(s.connectTimeout()),
	}
	if s.Catalog != "" || s.Schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(s.Catalog, s.Schema))
	}

	connector, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, fmt.Errorf("databricks connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
