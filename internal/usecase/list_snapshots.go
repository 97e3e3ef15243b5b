package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// ListSnapshotsInput contains the parameters for listing snapshots.
type ListSnapshotsInput struct{}

// ListSnapshotsOutput contains the result of listing snapshots.
type ListSnapshotsOutput struct {
	Snapshots []domain.SnapshotInfo // All snapshots, oldest first
}

// ListSnapshots is the use case for listing stored snapshots.
type ListSnapshots struct {
	snapshots domain.SnapshotOpener
}

// NewListSnapshots creates a new ListSnapshots use case.
func NewListSnapshots(snapshots domain.SnapshotOpener) *ListSnapshots {
	return &ListSnapshots{
		snapshots: snapshots,
	}
}

// Execute lists every snapshot in the namespace.
func (uc *ListSnapshots) Execute(_ context.Context, _ ListSnapshotsInput) (*ListSnapshotsOutput, error) {
	snaps, err := uc.snapshots()
	if err != nil {
		return nil, err
	}

	infos, err := snaps.List()
	if err != nil {
		return nil, err
	}

	return &ListSnapshotsOutput{Snapshots: infos}, nil
}
