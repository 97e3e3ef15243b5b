package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskq/internal/domain"
)

// RestoreSnapshotInput contains the parameters for restoring a
// snapshot.
type RestoreSnapshotInput struct {
	Ref string // Snapshot label, full ref name, or "current"
}

// RestoreSnapshotOutput contains the result of restoring a snapshot.
type RestoreSnapshotOutput struct {
	Tasks int // Number of tasks in the restored index
}

// RestoreSnapshot is the use case for rewriting the store from a
// snapshot.
type RestoreSnapshot struct {
	store     domain.TaskStore
	snapshots domain.SnapshotOpener
	logger    domain.Logger
}

// NewRestoreSnapshot creates a new RestoreSnapshot use case.
func NewRestoreSnapshot(store domain.TaskStore, snapshots domain.SnapshotOpener, logger domain.Logger) *RestoreSnapshot {
	return &RestoreSnapshot{
		store:     store,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute replaces the index wholesale under the exclusive lock, then
// rewrites the body files. Tasks without a body in the snapshot get
// their body file emptied, so no stale content survives the restore.
func (uc *RestoreSnapshot) Execute(_ context.Context, in RestoreSnapshotInput) (*RestoreSnapshotOutput, error) {
	snaps, err := uc.snapshots()
	if err != nil {
		return nil, err
	}

	restored, bodies, err := snaps.Restore(in.Ref)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Update(func(ix *domain.Index) error {
		*ix = *restored
		return nil
	}); err != nil {
		return nil, err
	}

	for _, t := range restored.Tasks {
		if err := uc.store.WriteBody(t.ID, bodies[t.ID]); err != nil {
			return nil, fmt.Errorf("write body for %s: %w", t.ID, err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info("", "snapshot", fmt.Sprintf("restored %s (%d tasks)", in.Ref, len(restored.Tasks)))
	}

	return &RestoreSnapshotOutput{Tasks: len(restored.Tasks)}, nil
}
