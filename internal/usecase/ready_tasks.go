package usecase

import (
	"context"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// ReadyTasksInput contains the parameters for listing claimable tasks.
type ReadyTasksInput struct{}

// ReadyTasksOutput contains the result of listing claimable tasks.
type ReadyTasksOutput struct {
	Tasks []*domain.Task // Claimable tasks in creation order
	Now   time.Time      // Time the readiness was evaluated at
}

// ReadyTasks is the use case for listing tasks a worker could claim
// right now.
type ReadyTasks struct {
	store domain.TaskStore
	clock domain.Clock
}

// NewReadyTasks creates a new ReadyTasks use case.
func NewReadyTasks(store domain.TaskStore, clock domain.Clock) *ReadyTasks {
	return &ReadyTasks{
		store: store,
		clock: clock,
	}
}

// Execute lists every claimable task, including in_progress tasks whose
// lease has already expired.
func (uc *ReadyTasks) Execute(_ context.Context, _ ReadyTasksInput) (*ReadyTasksOutput, error) {
	out := &ReadyTasksOutput{Now: uc.clock.Now()}
	err := uc.store.View(func(ix *domain.Index) error {
		out.Tasks = domain.ListReady(ix, out.Now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
