package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// newStartCommand creates the start command for claiming the next
// ready task.
func newStartCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Claimant     string
		LeaseSeconds int
		JSON         bool
		IDOnly       bool
		Body         bool
	}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Claim the next ready task",
		Long: `Claim the next ready task under an exclusive lease.

Expired leases are reclaimed first, then the oldest ready task is
claimed: its status becomes in_progress and a lease is recorded for
the claimant. When nothing is ready the command prints "No ready
tasks." (or "null" with --json, nothing with --id-only) and exits 0.

The claimant defaults to <user>@<host>:<pid> and the lease to the
configured lease_seconds.

Examples:
  # Claim the next task
  taskq start

  # Claim with the task body for context
  taskq start --body

  # Claim as a named worker with a ten-minute lease
  taskq start --claimant worker-2 --lease-seconds 600

  # Claim in a script
  id=$(taskq start --id-only)`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exclusive := 0
			for _, name := range []string{"json", "id-only", "body"} {
				if cmd.Flags().Changed(name) {
					exclusive++
				}
			}
			if exclusive > 1 {
				return usageErrorf("--json, --id-only, and --body are mutually exclusive")
			}

			uc := c.StartTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.StartTaskInput{
				Claimant:     opts.Claimant,
				LeaseSeconds: opts.LeaseSeconds,
				WithBody:     opts.Body,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Task == nil {
				switch {
				case opts.JSON:
					_, _ = fmt.Fprintln(w, "null")
				case opts.IDOnly:
					// Nothing to print
				default:
					_, _ = fmt.Fprintln(w, "No ready tasks.")
				}
				return nil
			}

			switch {
			case opts.JSON:
				return printJSON(w, out.Task)
			case opts.IDOnly:
				_, _ = fmt.Fprintln(w, out.Task.ID)
			default:
				_, _ = fmt.Fprintf(w, "Claimed %s: %s\n", out.Task.ID, out.Task.Title)
				_, _ = fmt.Fprintf(w, "Lease expires: %s\n", out.Task.LeaseExpiresAt.Format(time.RFC3339))
				if opts.Body && out.Body != "" {
					_, _ = fmt.Fprintf(w, "\n%s\n", strings.TrimRight(out.Body, "\n"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Claimant, "claimant", "", "Claimant identity (default <user>@<host>:<pid>)")
	cmd.Flags().IntVar(&opts.LeaseSeconds, "lease-seconds", 0, "Lease duration in seconds (default from config)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the claimed task in JSON format")
	cmd.Flags().BoolVar(&opts.IDOnly, "id-only", false, "Output only the claimed task id")
	cmd.Flags().BoolVar(&opts.Body, "body", false, "Include the markdown body in the output")

	return cmd
}

// newReleaseCommand creates the release command for returning a task
// to ready.
func newReleaseCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "release <id>",
		Short: "Return a task to ready",
		Long: `Return a task to the ready pool without finishing it.

The claim fields are cleared and the status becomes ready. This is an
administrative reset; it does not check who holds the claim.

Examples:
  # Release a task
  taskq release T0003
  taskq release 3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ReleaseTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ReleaseTaskInput{ID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Released %s\n", out.Task.ID)
			return nil
		},
	}
}

// newFinishCommand creates the finish command for marking a task done.
func newFinishCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Mark a task done",
		Long: `Mark a task done.

The status becomes done and the claim fields are cleared. Tasks
blocked by this one become claimable once their other blockers are
done as well.

Examples:
  # Finish a task
  taskq finish T0003
  taskq finish 3`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.FinishTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.FinishTaskInput{ID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Finished %s\n", out.Task.ID)
			return nil
		},
	}
}
