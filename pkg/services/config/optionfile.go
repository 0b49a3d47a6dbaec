package config

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/store/connection"
	"gopkg.in/ini.v1"
)

const defaultOptionSection = "client"

// ApplyOptionFile reads credentials from a MySQL-style option file
// (~/.my.cnf). Values already present in s take precedence.
func ApplyOptionFile(path, section string, s connection.Settings) (connection.Settings, error) {
	if section == "" {
		section = defaultOptionSection
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return s, fmt.Errorf("failed to load option file %s: %w", path, err)
	}
	if !file.HasSection(section) {
		return s, fmt.Errorf("option file %s has no [%s] section", path, section)
	}
	sec := file.Section(section)

	fill := func(dst *string, key string) {
		if *dst == "" && sec.HasKey(key) {
			*dst = sec.Key(key).String()
		}
	}
	fill(&s.User, "user")
	fill(&s.Password, "password")
	fill(&s.Host, "host")
	fill(&s.Database, "database")

	if s.Port == 0 && sec.HasKey("port") {
		port, err := sec.Key("port").Int()
		if err != nil {
			return s, fmt.Errorf("invalid port in option file %s: %w", path, err)
		}
		s.Port = port
	}
	return s, nil
}
