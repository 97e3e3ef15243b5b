package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// FinishTaskInput contains the parameters for finishing a task.
type FinishTaskInput struct {
	ID string // Task reference ("T0012", "t12", or "12")
}

// FinishTaskOutput contains the result of finishing a task.
type FinishTaskOutput struct {
	Task *domain.Task // The finished task
}

// FinishTask is the use case for marking a task done.
type FinishTask struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewFinishTask creates a new FinishTask use case.
func NewFinishTask(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *FinishTask {
	return &FinishTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute marks the task done and clears any claim. Finishing does not
// require a live claim; once the task is done its dependents become
// claimable.
func (uc *FinishTask) Execute(_ context.Context, in FinishTaskInput) (*FinishTaskOutput, error) {
	var finished *domain.Task
	err := uc.store.Update(func(ix *domain.Index) error {
		t, err := ix.Resolve(in.ID)
		if err != nil {
			return err
		}
		domain.Finish(t, uc.clock.Now())
		finished = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(finished.ID, "task", "finished")
	}

	return &FinishTaskOutput{Task: finished}, nil
}
