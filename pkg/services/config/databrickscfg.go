package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"gopkg.in/ini.v1"
)

// ProfileRegistry reads workspace profiles from a .databrickscfg file.
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*config.Config, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load databricks config %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*config.Config, error) {
	if !cr.cfg.HasSection(profile) {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	section := cr.cfg.Section(profile)

	return &config.Config{
		Profile: profile,
		Host:    section.Key("host").String(),
		Token:   section.Key("token").String(),
	}, nil
}

// ApplyDatabricksProfile fills the host and token of a databricks connection
// from profile, leaving explicitly configured values alone.
func ApplyDatabricksProfile(ctx context.Context, registry ProfileRegistry, profile string, s connection.Settings) (connection.Settings, error) {
	cfg, err := registry.GetConfig(ctx, profile)
	if err != nil {
		return s, err
	}
	if cfg.Token == "" {
		return s, fmt.Errorf("profile %s has no token; only personal access tokens are supported", profile)
	}

	if s.Host == "" {
		s.Host = hostname(cfg.Host)
	}
	if s.Token == "" {
		s.Token = cfg.Token
	}
	return s, nil
}

func hostname(host string) string {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
