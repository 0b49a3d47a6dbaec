package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/services/awscfg"
	"github.com/de-tools/report-atlas/pkg/services/catalog"
	"github.com/de-tools/report-atlas/pkg/services/publish"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/spf13/viper"
)

const EnvPrefix = "REPORT_ATLAS"

// Config is the full run configuration.
type Config struct {
	Database   connection.Settings  `mapstructure:"database"`
	Reports    []catalog.Definition `mapstructure:"reports"`
	OutputDir  string               `mapstructure:"output_dir"`
	JobTimeout time.Duration        `mapstructure:"job_timeout"`
	History    HistorySettings      `mapstructure:"history"`
	Publish    publish.S3Settings   `mapstructure:"publish"`
	// AWS is used for RDS endpoint discovery.
	AWS         awscfg.Settings   `mapstructure:"aws"`
	Credentials CredentialSources `mapstructure:"credentials"`
}

type HistorySettings struct {
	// Path of the DuckDB history file; empty disables history.
	Path string `mapstructure:"path"`
}

// CredentialSources name files that supply connection secrets.
type CredentialSources struct {
	OptionFile        string `mapstructure:"option_file"`
	OptionSection     string `mapstructure:"option_section"`
	DatabricksConfig  string `mapstructure:"databricks_config"`
	DatabricksProfile string `mapstructure:"databricks_profile"`
}

// envKeys are settable from the environment even when absent from the file.
var envKeys = []string{
	"database.host", "database.user", "database.password", "database.database",
	"database.ssl_mode", "database.path", "database.account", "database.warehouse",
	"database.role", "database.schema", "database.http_path", "database.token",
	"database.catalog", "database.rds_instance",
	"history.path",
	"publish.bucket", "publish.prefix",
	"publish.aws.profile", "publish.aws.region", "publish.aws.access_key_id",
	"publish.aws.secret_access_key", "publish.aws.endpoint",
	"aws.profile", "aws.region", "aws.access_key_id", "aws.secret_access_key",
	"credentials.option_file", "credentials.databricks_config", "credentials.databricks_profile",
}

func setDefaults(v *viper.Viper) {
	for _, key := range envKeys {
		v.SetDefault(key, "")
	}
	v.SetDefault("database.driver", connection.DriverMySQL)
	v.SetDefault("database.port", 0)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("output_dir", ".")
	v.SetDefault("job_timeout", "0s")
	v.SetDefault("publish.aws.path_style", false)
	v.SetDefault("credentials.option_section", "client")
}

// Load reads the config file at path (optional) and REPORT_ATLAS_* environment
// overrides, e.g. REPORT_ATLAS_DATABASE_PASSWORD. Without configured reports
// the influencer catalog is used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Reports) == 0 {
		cfg.Reports = catalog.Default()
	}
	return &cfg, nil
}

// ResolveCredentials merges secrets from the configured credential files into
// the database settings.
func (c *Config) ResolveCredentials(ctx context.Context) error {
	src := c.Credentials
	if src.OptionFile != "" {
		s, err := ApplyOptionFile(src.OptionFile, src.OptionSection, c.Database)
		if err != nil {
			return err
		}
		c.Database = s
	}

	if c.Database.Driver == connection.DriverDatabricks && src.DatabricksProfile != "" {
		path := src.DatabricksConfig
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to locate home directory: %w", err)
			}
			path = filepath.Join(home, ".databrickscfg")
		}
		registry, err := NewProfileRegistry(path)
		if err != nil {
			return err
		}
		s, err := ApplyDatabricksProfile(ctx, registry, src.DatabricksProfile, c.Database)
		if err != nil {
			return err
		}
		c.Database = s
	}
	return nil
}
