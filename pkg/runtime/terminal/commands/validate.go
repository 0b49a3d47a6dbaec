package commands

import (
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewValidateCmd checks the configuration without touching the database.
func NewValidateCmd(registry connection.Registry) *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the report configuration without connecting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, jobs, err := flags.load()
			if err != nil {
				return err
			}
			if _, err := registry.Lookup(cfg.Database.Driver); err != nil {
				return err
			}
			zerolog.Ctx(cmd.Context()).Info().
				Int("reports", len(jobs)).
				Str("database", cfg.Database.String()).
				Msg("configuration is valid")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
