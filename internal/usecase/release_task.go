package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// ReleaseTaskInput contains the parameters for releasing a claim.
type ReleaseTaskInput struct {
	ID string // Task reference ("T0012", "t12", or "12")
}

// ReleaseTaskOutput contains the result of releasing a claim.
type ReleaseTaskOutput struct {
	Task *domain.Task // The released task
}

// ReleaseTask is the use case for returning a task to ready without
// finishing it.
type ReleaseTask struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewReleaseTask creates a new ReleaseTask use case.
func NewReleaseTask(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *ReleaseTask {
	return &ReleaseTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute returns the task to ready and clears its claim. Any process
// may release any task; there is no claimant check.
func (uc *ReleaseTask) Execute(_ context.Context, in ReleaseTaskInput) (*ReleaseTaskOutput, error) {
	var released *domain.Task
	err := uc.store.Update(func(ix *domain.Index) error {
		t, err := ix.Resolve(in.ID)
		if err != nil {
			return err
		}
		domain.Release(t, uc.clock.Now())
		released = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(released.ID, "claim", "released back to ready")
	}

	return &ReleaseTaskOutput{Task: released}, nil
}
