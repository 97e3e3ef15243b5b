package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/tui/board"
	"github.com/spf13/cobra"
)

// launchBoardFunc is a function variable for launching the board TUI,
// allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the live task board",
		Long: `Open a read-only terminal board over the task queue.

The board shows every task with its claim state, reloads itself
periodically, and can be filtered by status. It never mutates the
store.

Key bindings:
  tab        cycle the status filter (all, ready, in_progress, done)
  r          reload now
  q, ctrl+c  quit`,
		Args: noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchBoardFunc(c)
		},
	}
}

// launchBoard runs the board program on the container's store.
func launchBoard(c *app.Container) error {
	p := tea.NewProgram(board.New(c.Store, c.Clock), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
