package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/store/connection"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry  connection.Registry
	reporter  *export.Reporter
	logOutput io.Writer
	rootCmd   *cobra.Command

	logLevel  string
	logFormat string
	envFile   string
}

// Options contain configuration for the CLI
type Options struct {
	Registry connection.Registry
	Output   io.Writer
	// LogOutput receives log lines; defaults to stderr so reports stay parseable.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Registry == nil {
		opts.Registry = connection.NewRegistry(connection.Builtin())
	}

	cli := &CLI{
		registry:  opts.Registry,
		reporter:  export.NewReporter(opts.Output),
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "report-atlas",
		Short:             "Render charts from reporting queries",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&cli.logFormat, "log-format", "console", "Log format (console or json)")
	cmd.PersistentFlags().StringVar(&cli.envFile, "env-file", ".env", "Dotenv file loaded before reading configuration")

	cmd.AddCommand(commands.NewRunCmd(cli.registry, cli.reporter))
	cmd.AddCommand(commands.NewListCmd(cli.reporter))
	cmd.AddCommand(commands.NewValidateCmd(cli.registry))
	cmd.AddCommand(commands.NewHistoryCmd(cli.reporter))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cli.logOutput, cli.logLevel, cli.logFormat)
	if err != nil {
		return err
	}

	if cli.envFile != "" {
		if err := godotenv.Load(cli.envFile); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("file", cli.envFile).Msg("failed to load env file")
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx))
	return nil
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (use console or json)", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
