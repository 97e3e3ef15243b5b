package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskq/internal/app"
	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/testutil"
)

var (
	testNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedBase = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
)

// newTestContainer creates an app.Container with mock dependencies.
func newTestContainer(store *testutil.MockTaskStore) *app.Container {
	container := app.NewWithDeps(
		app.Config{Root: "/work", StoreDir: "/work/tasks"},
		store,
		&testutil.MockStoreInitializer{},
		&testutil.MockClock{NowTime: testNow},
		&testutil.MockLogger{},
	)
	container.ConfigLoader = testutil.NewMockConfigLoader()
	container.ConfigManager = testutil.NewMockConfigManager()
	container.Schema = &testutil.MockSchemaValidator{}
	return container
}

// seedTask adds a task to the store with a creation time staggered a
// minute after the previous one.
func seedTask(store *testutil.MockTaskStore, title string, status domain.Status, blockedBy ...string) *domain.Task {
	created := seedBase.Add(time.Duration(len(store.Index.Tasks)) * time.Minute)
	task := &domain.Task{
		ID:        store.Index.Allocate(),
		Title:     title,
		Status:    status,
		BlockedBy: append([]string{}, blockedBy...),
		CreatedAt: created,
		UpdatedAt: created,
	}
	store.Index.Tasks = append(store.Index.Tasks, task)
	return task
}

// claimTask marks a task as claimed with a lease ending at expires.
func claimTask(task *domain.Task, claimant string, expires time.Time) {
	claimed := expires.Add(-4 * time.Hour)
	task.Status = domain.StatusInProgress
	task.ClaimedBy = claimant
	task.ClaimedAt = &claimed
	task.LeaseExpiresAt = &expires
}

// =============================================================================
// Add Command Tests
// =============================================================================

func TestNewAddCommand_CreateTask(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	// Create command
	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Write the parser"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Created task T0001")

	require.Len(t, store.Index.Tasks, 1)
	task := store.Index.Tasks[0]
	assert.Equal(t, "Write the parser", task.Title)
	assert.Equal(t, domain.StatusReady, task.Status)
	assert.Equal(t, testNow, task.CreatedAt)
}

func TestNewAddCommand_WithBlockers(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "First", domain.StatusReady)
	seedTask(store, "Second", domain.StatusReady)
	container := newTestContainer(store)

	// Create command: one canonical reference, one bare number
	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Third", "--blocked-by", "T0001", "--blocked-by", "2"})

	// Execute
	err := cmd.Execute()

	// Assert: references are canonicalized
	assert.NoError(t, err)
	require.Len(t, store.Index.Tasks, 3)
	assert.Equal(t, []string{"T0001", "T0002"}, store.Index.Tasks[2].BlockedBy)
}

func TestNewAddCommand_UnknownBlocker(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Task", "--blocked-by", "T0099"})

	// Execute
	err := cmd.Execute()

	// Assert: domain failure, not a usage error
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownBlocker)
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, store.Index.Tasks)
}

func TestNewAddCommand_MissingTitle(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert: usage error, exit code 2
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewAddCommand_MarkdownStdin(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader("# Notes\n\nBody from stdin.\n"))
	cmd.SetArgs([]string{"--title", "Task", "--markdown-stdin"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "# Notes\n\nBody from stdin.\n", store.Bodies["T0001"])
}

func TestNewAddCommand_MarkdownFile(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("Body from file.\n"), 0o644))

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Task", "--markdown-file", path})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Body from file.\n", store.Bodies["T0001"])
}

func TestNewAddCommand_BodySourcesExclusive(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Task", "--markdown-file", "x.md", "--markdown-stdin"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewAddCommand_JSON(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--title", "Task", "--json"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"id": "T0001"`)
	assert.Contains(t, buf.String(), `"status": "ready"`)
}

func TestNewAddCommand_FromFile(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Existing", domain.StatusDone)
	container := newTestContainer(store)

	content := `---
title: Design schema
---
Schema notes.

---
title: Implement schema
blocked_by: [1]
---

---
title: Migrate data
blocked_by: [2, T0001]
---
`
	path := filepath.Join(t.TempDir(), "backlog.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--from-file", path})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Created task T0002: Design schema")
	assert.Contains(t, out, "Created task T0003: Implement schema")
	assert.Contains(t, out, "Created task T0004: Migrate data")
	assert.Contains(t, out, "Created 3 task(s)")

	// Bare numbers resolve within the file, ids against the store
	require.Len(t, store.Index.Tasks, 4)
	assert.Equal(t, []string{"T0002"}, store.Index.Tasks[2].BlockedBy)
	assert.Equal(t, []string{"T0003", "T0001"}, store.Index.Tasks[3].BlockedBy)
	assert.Equal(t, "Schema notes.", store.Bodies["T0002"])
}

func TestNewAddCommand_FromFileParseError(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	path := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o644))

	cmd := newAddCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--from-file", path})

	// Execute
	err := cmd.Execute()

	// Assert: nothing was created
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
	assert.Empty(t, store.Index.Tasks)
}

// =============================================================================
// List Command Tests
// =============================================================================

func TestNewListCommand_DefaultHidesDone(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Open task", domain.StatusReady)
	seedTask(store, "Finished task", domain.StatusDone)
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "Open task")
	assert.NotContains(t, out, "Finished task")
}

func TestNewListCommand_All(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Open task", domain.StatusReady)
	seedTask(store, "Finished task", domain.StatusDone)
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--all"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Open task")
	assert.Contains(t, buf.String(), "Finished task")
}

func TestNewListCommand_StatusFilter(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Ready task", domain.StatusReady)
	seedTask(store, "Done task", domain.StatusDone)
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--status", "done"})

	// Execute
	err := cmd.Execute()

	// Assert: the filter shows stored status, even done
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Done task")
	assert.NotContains(t, buf.String(), "Ready task")
}

func TestNewListCommand_BlockersAndClaims(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Blocker", domain.StatusReady)
	seedTask(store, "Blocked", domain.StatusReady, "T0001")
	claimed := seedTask(store, "Claimed", domain.StatusReady)
	claimTask(claimed, "alice@host:42", testNow.Add(2*time.Hour))
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert: blocker column, claimant column, lease countdown
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "T0001")
	assert.Contains(t, out, "alice@host:42")
	assert.Contains(t, out, "in_progress (2h left)")
}

func TestNewListCommand_ExpiredLease(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	stale := seedTask(store, "Stale", domain.StatusReady)
	claimTask(stale, "bob@host:7", testNow.Add(-time.Minute))
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "in_progress (lease expired)")
}

func TestNewListCommand_JSONEmpty(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	// Execute
	err := cmd.Execute()

	// Assert: empty array, not null
	assert.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestNewListCommand_NotInitialized(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	store.Index = nil
	container := newTestContainer(store)

	cmd := newListCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.Equal(t, 1, ExitCode(err))
}

// =============================================================================
// Ready Command Tests
// =============================================================================

func TestNewReadyCommand_FiltersClaimable(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Claimable", domain.StatusReady)
	seedTask(store, "Blocked", domain.StatusReady, "T0004")
	held := seedTask(store, "Held", domain.StatusReady)
	claimTask(held, "alice@host:42", testNow.Add(time.Hour))
	seedTask(store, "Blocker", domain.StatusReady)
	stale := seedTask(store, "Stale claim", domain.StatusReady)
	claimTask(stale, "bob@host:7", testNow.Add(-time.Minute))
	container := newTestContainer(store)

	cmd := newReadyCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert: unblocked and unleased only; expired leases count as ready
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Claimable")
	assert.Contains(t, out, "Blocker")
	assert.Contains(t, out, "Stale claim")
	assert.NotContains(t, out, "Blocked")
	assert.NotContains(t, out, "Held")
}

func TestNewReadyCommand_JSONEmpty(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Done", domain.StatusDone)
	container := newTestContainer(store)

	cmd := newReadyCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

// =============================================================================
// Get Command Tests
// =============================================================================

func TestNewGetCommand_Details(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Write docs", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"T0001"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "# T0001: Write docs")
	assert.Contains(t, out, "Status: ready")
	assert.Contains(t, out, "Blocked by: none")
	assert.Contains(t, out, "Created: 2025-06-01T09:00:00Z")
}

func TestNewGetCommand_BareNumber(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "# T0001: Task")
}

func TestNewGetCommand_WithClaim(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	task := seedTask(store, "Claimed task", domain.StatusReady)
	claimTask(task, "alice@host:42", testNow.Add(90*time.Minute))
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Claimed by: alice@host:42")
	assert.Contains(t, out, "Lease: 1h remaining")
}

func TestNewGetCommand_ExpiredLease(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	task := seedTask(store, "Stale task", domain.StatusReady)
	claimTask(task, "bob@host:7", testNow.Add(-30*time.Minute))
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Lease: expired 30m ago")
}

func TestNewGetCommand_WithBody(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	store.Bodies["T0001"] = "# Context\n\nDetails here.\n"
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Details here.")
}

func TestNewGetCommand_BodyOnly(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	store.Bodies["T0001"] = "Raw body.\n"
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--body"})

	// Execute
	err := cmd.Execute()

	// Assert: the body verbatim, nothing else
	assert.NoError(t, err)
	assert.Equal(t, "Raw body.\n", buf.String())
}

func TestNewGetCommand_JSON(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	store.Bodies["T0001"] = "Body text."
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--json"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"id": "T0001"`)
	assert.Contains(t, buf.String(), `"body": "Body text."`)
}

func TestNewGetCommand_JSONBodyExclusive(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--json", "--body"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewGetCommand_NotFound(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"T0042"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, 1, ExitCode(err))
}

func TestNewGetCommand_NoArgs(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	container := newTestContainer(store)

	cmd := newGetCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

// =============================================================================
// Update Command Tests
// =============================================================================

func TestNewUpdateCommand_AddBlocker(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Blocker", domain.StatusReady)
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"2", "--add-blocker", "1"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Updated task T0002")
	assert.Equal(t, []string{"T0001"}, store.Index.Tasks[1].BlockedBy)
	assert.Equal(t, testNow, store.Index.Tasks[1].UpdatedAt)
}

func TestNewUpdateCommand_AddBlockerCycle(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "A", domain.StatusReady, "T0002")
	seedTask(store, "B", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"2", "--add-blocker", "1"})

	// Execute
	err := cmd.Execute()

	// Assert: rejected, store untouched
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Empty(t, store.Index.Tasks[1].BlockedBy)
}

func TestNewUpdateCommand_RemoveBlocker(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Blocker", domain.StatusReady)
	seedTask(store, "Task", domain.StatusReady, "T0001")
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"2", "--remove-blocker", "T0001"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, store.Index.Tasks[1].BlockedBy)
}

func TestNewUpdateCommand_StatusDone(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	task := seedTask(store, "Task", domain.StatusReady)
	claimTask(task, "alice@host:42", testNow.Add(time.Hour))
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--status", "done"})

	// Execute
	err := cmd.Execute()

	// Assert: claim cleared alongside the status change
	assert.NoError(t, err)
	stored := store.Index.Tasks[0]
	assert.Equal(t, domain.StatusDone, stored.Status)
	assert.Empty(t, stored.ClaimedBy)
	assert.Nil(t, stored.ClaimedAt)
	assert.Nil(t, stored.LeaseExpiresAt)
}

func TestNewUpdateCommand_StatusInProgressGrantsLease(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--status", "in_progress"})

	// Execute
	err := cmd.Execute()

	// Assert: defaults from config
	assert.NoError(t, err)
	stored := store.Index.Tasks[0]
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Equal(t, "worker-1", stored.ClaimedBy)
	require.NotNil(t, stored.LeaseExpiresAt)
	assert.Equal(t, testNow.Add(4*time.Hour), *stored.LeaseExpiresAt)
}

func TestNewUpdateCommand_InvalidStatus(t *testing.T) {
	// Setup: through the root command so flag errors get classified
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	root := NewRootCommand(container, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"update", "1", "--status", "paused"})

	// Execute
	err := root.Execute()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewUpdateCommand_BodyFromStdin(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	store.Bodies["T0001"] = "Old body.\n"
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader("New body.\n"))
	cmd.SetArgs([]string{"1", "--markdown-stdin"})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "New body.\n", store.Bodies["T0001"])
}

func TestNewUpdateCommand_MultipleChanges(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Blocker", domain.StatusReady)
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"2", "--add-blocker", "1", "--status", "done"})

	// Execute
	err := cmd.Execute()

	// Assert: one change per invocation
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Equal(t, domain.StatusReady, store.Index.Tasks[1].Status)
}

func TestNewUpdateCommand_BodySourcesExclusive(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1", "--markdown-stdin", "--edit"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestNewUpdateCommand_NoChanges(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	container := newTestContainer(store)

	cmd := newUpdateCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"1"})

	// Execute
	err := cmd.Execute()

	// Assert: no flags at all is a domain error, not usage
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
	assert.Equal(t, 1, ExitCode(err))
}
