// Package cli provides the command-line interface for taskq.
package cli

import (
	"fmt"
	"os"

	"github.com/runoshun/taskq/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
	groupClaim = "claim"
)

// NewRootCommand creates the root command for taskq.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var rootDir string

	root := &cobra.Command{
		Use:   "taskq",
		Short: "File-backed task queue with dependencies and leases",
		Long: `taskq is a file-backed task queue shared by uncoordinated
processes on one host.

Tasks carry dependency edges (blocked_by) and become claimable only
once every blocker is done. Claims are exclusive leases: when a lease
expires the task returns to the ready pool, so work claimed by a
crashed worker is never stranded.

All state lives under <root>/tasks/ and every mutation runs under an
exclusive file lock, making concurrent invocations safe.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			if !c.Bound() {
				c.Bind(rootDir)
			}

			if c.ConfigLoader == nil {
				return nil
			}
			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Broken config files fail the commands that need them
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Flag parse failures are usage errors (exit 2)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	root.PersistentFlags().StringVar(&rootDir, "root", defaultRoot(), "Queue root directory")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupClaim, Title: "Claim Workflow:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	validateCmd := newValidateCommand(c)
	validateCmd.GroupID = groupSetup

	snapshotCmd := newSnapshotCommand(c)
	snapshotCmd.GroupID = groupSetup

	// Task management commands
	addCmd := newAddCommand(c)
	addCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	readyCmd := newReadyCommand(c)
	readyCmd.GroupID = groupTask

	getCmd := newGetCommand(c)
	getCmd.GroupID = groupTask

	updateCmd := newUpdateCommand(c)
	updateCmd.GroupID = groupTask

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupTask

	// Claim workflow commands
	startCmd := newStartCommand(c)
	startCmd.GroupID = groupClaim

	releaseCmd := newReleaseCommand(c)
	releaseCmd.GroupID = groupClaim

	finishCmd := newFinishCommand(c)
	finishCmd.GroupID = groupClaim

	// Add subcommands
	root.AddCommand(
		initCmd,
		configCmd,
		validateCmd,
		snapshotCmd,
		addCmd,
		listCmd,
		readyCmd,
		getCmd,
		updateCmd,
		boardCmd,
		startCmd,
		releaseCmd,
		finishCmd,
	)

	return root
}

// defaultRoot returns $TASKQ_ROOT when set, the current directory
// otherwise.
func defaultRoot() string {
	if root := os.Getenv("TASKQ_ROOT"); root != "" {
		return root
	}
	return "."
}
