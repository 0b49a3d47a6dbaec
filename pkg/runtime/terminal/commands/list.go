package commands

import (
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewListCmd(reporter *export.Reporter) *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, jobs, err := flags.load()
			if err != nil {
				return err
			}
			return reporter.HandleCatalog(jobs)
		},
	}
	flags.register(cmd)
	return cmd
}
