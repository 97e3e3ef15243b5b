package cli

import (
	"fmt"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// newSnapshotCommand creates the snapshot command.
func newSnapshotCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage store snapshots",
		Long: `Save, list, and restore snapshots of the task store.

Snapshots are recorded as git refs in the repository containing the
queue root, so they travel with the repository history without
touching the working tree. The queue root must sit inside a git
repository.`,
	}

	cmd.AddCommand(newSnapshotSaveCommand(c))
	cmd.AddCommand(newSnapshotListCommand(c))
	cmd.AddCommand(newSnapshotRestoreCommand(c))

	return cmd
}

// newSnapshotSaveCommand creates the snapshot save subcommand.
func newSnapshotSaveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current store state",
		Long: `Save the current task index and bodies as a snapshot.

The snapshot is stored under refs/<namespace>/snapshots/ with a UTC
timestamp label; the namespace comes from config (default "taskq").`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.SaveSnapshotUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.SaveSnapshotInput{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (%d tasks)\n", out.Info.Label, out.Tasks)
			return nil
		},
	}
}

// newSnapshotListCommand creates the snapshot list subcommand.
func newSnapshotListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots",
		Long:  `List all snapshots in the configured namespace, oldest first.`,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListSnapshotsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListSnapshotsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Snapshots) == 0 {
				_, _ = fmt.Fprintln(w, "No snapshots found")
				return nil
			}

			for _, s := range out.Snapshots {
				_, _ = fmt.Fprintf(w, "%d  %s\n", s.Seq, s.Label)
			}
			return nil
		},
	}
}

// newSnapshotRestoreCommand creates the snapshot restore subcommand.
func newSnapshotRestoreCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <ref>",
		Short: "Restore the store from a snapshot",
		Long: `Restore the task store from a snapshot.

The ref may be a snapshot label from 'taskq snapshot list', a full
ref name, or "current" for the most recent snapshot. The index is
replaced wholesale and every body file is rewritten.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.RestoreSnapshotUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.RestoreSnapshotInput{Ref: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %d task(s) from %s\n", out.Tasks, args[0])
			return nil
		},
	}
}
