package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/report-atlas/pkg/runtime/terminal"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/report-atlas/pkg/store/connection"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: connection.NewRegistry(connection.Builtin()),
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, commands.ErrReportsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
