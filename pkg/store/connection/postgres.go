package connection

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

func postgresDSN(s Settings) string {
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	port := s.Port
	if port == 0 {
		port = 5432
	}
	sslMode := s.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		quoteValue(host), port, quoteValue(s.User), quoteValue(s.Password), quoteValue(s.Database),
		quoteValue(sslMode), int(s.connectTimeout().Seconds()),
	)
}

// quoteValue single-quotes a keyword DSN value, escaping backslashes and quotes.
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func dialPostgres(_ context.Context, s Settings) (*sql.DB, error) {
	connector, err := pq.NewConnector(postgresDSN(s))
	if err != nil {
		return nil, fmt.Errorf("postgres connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
