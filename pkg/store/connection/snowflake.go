package connection

import (
	"context"
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

func snowflakeConfig(s Settings) *sf.Config {
	return &sf.Config{
		Account:      s.Account,
		User:         s.User,
		Password:     s.Password,
		Database:     s.Database,
		Schema:       s.Schema,
		Warehouse:    s.Warehouse,
		Role:         s.Role,
		LoginTimeout: s.connectTimeout(),
	}
}

func dialSnowflake(_ context.Context, s Settings) (*sql.DB, error) {
	dsn, err := sf.DSN(snowflakeConfig(s))
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}
	return db, nil
}
