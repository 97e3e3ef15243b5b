// Package main is the entry point for the taskq CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	container := app.New()
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}
