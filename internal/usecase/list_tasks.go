package usecase

import (
	"context"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Status domain.Status // Filter by stored status (empty = all)
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task // Tasks in creation order
	Now   time.Time      // Time of the listing, for lease display
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store domain.TaskStore
	clock domain.Clock
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.TaskStore, clock domain.Clock) *ListTasks {
	return &ListTasks{
		store: store,
		clock: clock,
	}
}

// Execute lists tasks matching the given input criteria. Statuses are
// reported as stored; an expired lease does not change the persisted
// status until someone claims.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	out := &ListTasksOutput{Now: uc.clock.Now()}
	err := uc.store.View(func(ix *domain.Index) error {
		for _, t := range ix.Tasks {
			if in.Status != "" && t.Status != in.Status {
				continue
			}
			out.Tasks = append(out.Tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
