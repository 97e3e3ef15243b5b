package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/testutil"
)

func TestNewValidateCommand_Consistent(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Blocker", domain.StatusDone)
	seedTask(store, "Task", domain.StatusReady, "T0001")
	container := newTestContainer(store)

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Store is consistent.")
}

func TestNewValidateCommand_Findings(t *testing.T) {
	// Setup: dangling blocker reference
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady, "T0099")
	container := newTestContainer(store)

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert: findings on stdout, failure exit
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreInvalid)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, buf.String(), "T0001: unknown blocker T0099")
}

func TestNewValidateCommand_SchemaFindings(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)
	container.Schema = &testutil.MockSchemaValidator{
		Issues: []domain.Inconsistency{
			{TaskID: "T0001", Message: "claimed_by present without lease_expires_at"},
		},
	}

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 finding(s)")
	assert.Contains(t, buf.String(), "T0001: claimed_by present without lease_expires_at")
}

func TestNewValidateCommand_JSON(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady, "T0099")
	container := newTestContainer(store)

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"task_id": "T0001"`)
	assert.Contains(t, buf.String(), `"message": "unknown blocker T0099"`)
}

func TestNewValidateCommand_JSONConsistent(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	// Execute
	err := cmd.Execute()

	// Assert: empty array, exit 0
	assert.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestNewValidateCommand_NotInitialized(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	store.Index = nil
	container := newTestContainer(store)

	cmd := newValidateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert: unreadable store is an error, not a finding
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}
