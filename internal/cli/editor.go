package cli

import (
	"fmt"
	"os"
	"os/exec"
)

// resolveEditor picks the editor command from $EDITOR, then $VISUAL,
// defaulting to vim.
func resolveEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vim"
}

// openEditor opens path in the user's editor, wired to the terminal.
// It returns an error if the editor cannot be started or exits with a
// non-zero status.
func openEditor(path string) error {
	editor := resolveEditor()

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", editor, err)
	}
	return nil
}
