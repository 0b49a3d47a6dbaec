package connection

import (
	"fmt"
	"time"
)

const defaultConnectTimeout = 10 * time.Second

// Settings describes how to reach the reporting database. Which fields matter
// depends on the driver.
type Settings struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`

	// Path is the database file for embedded engines (sqlite, duckdb).
	Path string `mapstructure:"path"`

	// Snowflake
	Account   string `mapstructure:"account"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
	Schema    string `mapstructure:"schema"`

	// Databricks SQL
	HTTPPath string `mapstructure:"http_path"`
	Token    string `mapstructure:"token"`
	Catalog  string `mapstructure:"catalog"`

	// RDSInstance, when set, resolves Host and Port from the AWS RDS API.
	RDSInstance string `mapstructure:"rds_instance"`

	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

func (s Settings) connectTimeout() time.Duration {
	if s.ConnectTimeout <= 0 {
		return defaultConnectTimeout
	}
	return s.ConnectTimeout
}

// String never includes secrets.
func (s Settings) String() string {
	switch s.Driver {
	case DriverSQLite, DriverDuckDB:
		return fmt.Sprintf("%s:%s", s.Driver, s.Path)
	case DriverSnowflake:
		return fmt.Sprintf("%s://%s@%s/%s", s.Driver, s.User, s.Account, s.Database)
	case DriverDatabricks:
		return fmt.Sprintf("%s://%s%s", s.Driver, s.Host, s.HTTPPath)
	default:
		return fmt.Sprintf("%s://%s@%s:%d/%s", s.Driver, s.User, s.Host, s.Port, s.Database)
	}
}
