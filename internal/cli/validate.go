package cli

import (
	"fmt"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/usecase"
	"github.com/spf13/cobra"
)

// newValidateCommand creates the validate command for the full-store
// consistency check.
func newValidateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the store for inconsistencies",
		Long: `Check the whole task store for inconsistencies.

The raw index document is first validated against the persisted
schema (id shapes, status enum, claim field pairing), then the
decoded store is scanned for semantic problems: unknown blocker
references, dependency cycles, and incoherent claim state.

Every finding is printed; any finding makes the command exit 1.

Examples:
  # Validate the store
  taskq validate

  # Findings as JSON for tooling
  taskq validate --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ValidateStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ValidateStoreInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.JSON {
				findings := out.Inconsistencies
				if findings == nil {
					findings = []domain.Inconsistency{}
				}
				if err := printJSON(w, findings); err != nil {
					return err
				}
			} else if len(out.Inconsistencies) == 0 {
				_, _ = fmt.Fprintln(w, "Store is consistent.")
			} else {
				for _, finding := range out.Inconsistencies {
					_, _ = fmt.Fprintln(w, finding.String())
				}
			}

			if n := len(out.Inconsistencies); n > 0 {
				return fmt.Errorf("%w: %d finding(s)", domain.ErrStoreInvalid, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output findings in JSON format")

	return cmd
}
