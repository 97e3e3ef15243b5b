package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/testutil"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "usage error", err: usageErrorf("bad flag"), want: 2},
		{name: "wrapped usage error", err: fmt.Errorf("context: %w", usageErrorf("bad flag")), want: 2},
		{name: "domain error", err: domain.ErrTaskNotFound, want: 1},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestNewRootCommand_Help(t *testing.T) {
	root := NewRootCommand(nil, "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Setup Commands:")
	assert.Contains(t, out, "Task Management:")
	assert.Contains(t, out, "Claim Workflow:")
	for _, name := range []string{"init", "add", "list", "ready", "get", "update", "start", "release", "finish", "validate", "snapshot", "config", "board"} {
		assert.Contains(t, out, name)
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	err := root.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1.2.3")
}

func TestNewRootCommand_UnknownFlag(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	root := NewRootCommand(container, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"list", "--bogus"})

	// Execute
	err := root.Execute()

	// Assert: flag parse failures are usage errors
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewRootCommand_InvalidStatusFlag(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	root := NewRootCommand(container, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"list", "--status", "paused"})

	// Execute
	err := root.Execute()

	// Assert: bad enum value is a usage error with the valid set named
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, err.Error(), "valid: ready, in_progress, done")
}

func TestNewRootCommand_RunsSubcommand(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	root := NewRootCommand(container, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"init"})

	// Execute
	err := root.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Initialized task store in /work/tasks")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)
	loader := testutil.NewMockConfigLoader()
	loader.Config.Warnings = []string{"config.toml: unknown key \"leese_seconds\""}
	container.ConfigLoader = loader

	root := NewRootCommand(container, "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"list"})

	// Execute
	err := root.Execute()

	// Assert: warnings go to stderr, the command still runs
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Warning: config.toml: unknown key \"leese_seconds\"")
	assert.Contains(t, out.String(), "ID")
}

func TestNewRootCommand_BrokenConfigDoesNotBlockCommands(t *testing.T) {
	// Setup: the loader fails outright
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)
	container.ConfigLoader = &testutil.MockConfigLoader{LoadErr: errors.New("parse error")}

	root := NewRootCommand(container, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"list"})

	// Execute
	err := root.Execute()

	// Assert: read commands keep working on defaults
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Task")
}
