package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskq/internal/domain"
)

// SaveSnapshotInput contains the parameters for saving a snapshot.
type SaveSnapshotInput struct{}

// SaveSnapshotOutput contains the result of saving a snapshot.
type SaveSnapshotOutput struct {
	Info  domain.SnapshotInfo // The recorded snapshot
	Tasks int                 // Number of tasks captured
}

// SaveSnapshot is the use case for archiving the current store state.
type SaveSnapshot struct {
	store     domain.TaskStore
	snapshots domain.SnapshotOpener
	logger    domain.Logger
}

// NewSaveSnapshot creates a new SaveSnapshot use case.
func NewSaveSnapshot(store domain.TaskStore, snapshots domain.SnapshotOpener, logger domain.Logger) *SaveSnapshot {
	return &SaveSnapshot{
		store:     store,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute captures the index and all non-empty task bodies as one
// snapshot.
func (uc *SaveSnapshot) Execute(_ context.Context, _ SaveSnapshotInput) (*SaveSnapshotOutput, error) {
	snaps, err := uc.snapshots()
	if err != nil {
		return nil, err
	}

	var ix *domain.Index
	if err := uc.store.View(func(inner *domain.Index) error {
		ix = inner
		return nil
	}); err != nil {
		return nil, err
	}

	bodies := make(map[string]string)
	for _, t := range ix.Tasks {
		body, err := uc.store.ReadBody(t.ID)
		if err != nil {
			return nil, fmt.Errorf("read body for %s: %w", t.ID, err)
		}
		if body != "" {
			bodies[t.ID] = body
		}
	}

	info, err := snaps.Save(ix, bodies)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("", "snapshot", fmt.Sprintf("saved %s (%d tasks)", info.Label, len(ix.Tasks)))
	}

	return &SaveSnapshotOutput{Info: info, Tasks: len(ix.Tasks)}, nil
}
