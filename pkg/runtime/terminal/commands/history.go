package commands

import (
	"fmt"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/config"
	"github.com/de-tools/report-atlas/pkg/services/history"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	historystore "github.com/de-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	configPath  string
	historyPath string
	limit       int
	format      string
	reporter    *export.Reporter
}

func NewHistoryCmd(reporter *export.Reporter) *cobra.Command {
	hc := &HistoryCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded report runs",
		RunE:  hc.run,
	}

	cmd.Flags().StringVarP(&hc.configPath, "config", "c", "", "Path to the YAML configuration file")
	cmd.Flags().StringVar(&hc.historyPath, "history", "", "DuckDB history file (overrides history.path)")
	cmd.Flags().IntVarP(&hc.limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVarP(&hc.format, "format", "f", "text", "Output format (text, json, yaml)")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(hc.format)
	if err != nil {
		return err
	}

	path := hc.historyPath
	if path == "" {
		cfg, err := config.Load(hc.configPath)
		if err != nil {
			return err
		}
		path = cfg.History.Path
	}
	if path == "" {
		return fmt.Errorf("no history file configured; pass --history or set history.path")
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	store, err := historystore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	runs, err := history.NewRecorder(store).Recent(cmd.Context(), hc.limit)
	if err != nil {
		return err
	}
	return hc.reporter.HandleHistory(runs, format)
}
