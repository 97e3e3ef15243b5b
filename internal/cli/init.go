package cli

import (
	"fmt"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize a task store under the queue root.

This command creates the tasks/ directory with:
- index.json: empty task index
- items/: directory for task body files

Error conditions:
- Already initialized: "task store already initialized"`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			_, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized task store in %s\n", c.Config.StoreDir)
			return nil
		},
	}
}
