package connection

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

func mysqlConfig(s Settings) *mysql.Config {
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	port := s.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.Timeout = s.connectTimeout()
	if s.SSLMode == "require" {
		cfg.TLSConfig = "true"
	}
	return cfg
}

func dialMySQL(_ context.Context, s Settings) (*sql.DB, error) {
	connector, err := mysql.NewConnector(mysqlConfig(s))
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
