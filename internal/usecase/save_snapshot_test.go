package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskq/internal/domain"
)

// mockSnapshotStore is a test double for domain.SnapshotStore.
type mockSnapshotStore struct {
	saved       *domain.Index
	savedBodies map[string]string
	saveInfo    domain.SnapshotInfo
	saveErr     error

	listInfos []domain.SnapshotInfo
	listErr   error

	restoreIndex  *domain.Index
	restoreBodies map[string]string
	restoreErr    error
	restoredRef   string
}

func (m *mockSnapshotStore) Save(ix *domain.Index, bodies map[string]string) (domain.SnapshotInfo, error) {
	if m.saveErr != nil {
		return domain.SnapshotInfo{}, m.saveErr
	}
	m.saved = ix
	m.savedBodies = bodies
	return m.saveInfo, nil
}

func (m *mockSnapshotStore) List() ([]domain.SnapshotInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listInfos, nil
}

func (m *mockSnapshotStore) Restore(ref string) (*domain.Index, map[string]string, error) {
	if m.restoreErr != nil {
		return nil, nil, m.restoreErr
	}
	m.restoredRef = ref
	return m.restoreIndex, m.restoreBodies, nil
}

// snapshotOpener wraps a snapshot store (or an open failure) as a
// domain.SnapshotOpener.
func snapshotOpener(s domain.SnapshotStore, err error) domain.SnapshotOpener {
	return func() (domain.SnapshotStore, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func TestSaveSnapshot_Execute_Success(t *testing.T) {
	// Setup
	store := newMockTaskStore()
	seedTask(store, "First", domain.StatusDone)
	seedTask(store, "Second", domain.StatusReady)
	store.bodies["T0001"] = "notes"
	store.bodies["T0002"] = ""
	snaps := &mockSnapshotStore{
		saveInfo: domain.SnapshotInfo{Ref: "refs/taskq/snapshots/20250601T120000Z_001", Label: "20250601T120000Z_001", Seq: 1},
	}
	logger := &mockLogger{}
	uc := NewSaveSnapshot(store, snapshotOpener(snaps, nil), logger)

	// Execute
	out, err := uc.Execute(context.Background(), SaveSnapshotInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Tasks)
	assert.Equal(t, "20250601T120000Z_001", out.Info.Label)

	// The index and only the non-empty bodies were captured
	require.NotNil(t, snaps.saved)
	assert.Len(t, snaps.saved.Tasks, 2)
	assert.Equal(t, map[string]string{"T0001": "notes"}, snaps.savedBodies)

	require.Len(t, logger.entries, 1)
	assert.Equal(t, "snapshot", logger.entries[0].category)
}

func TestSaveSnapshot_Execute_NotARepository(t *testing.T) {
	// Setup
	store := newMockTaskStore()
	uc := NewSaveSnapshot(store, snapshotOpener(nil, domain.ErrNotGitRepository), nil)

	// Execute
	_, err := uc.Execute(context.Background(), SaveSnapshotInput{})

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotGitRepository)
}

func TestSaveSnapshot_Execute_SaveError(t *testing.T) {
	// Setup
	store := newMockTaskStore()
	seedTask(store, "Task", domain.StatusReady)
	snaps := &mockSnapshotStore{saveErr: assert.AnError}
	uc := NewSaveSnapshot(store, snapshotOpener(snaps, nil), nil)

	// Execute
	_, err := uc.Execute(context.Background(), SaveSnapshotInput{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save snapshot")
}
