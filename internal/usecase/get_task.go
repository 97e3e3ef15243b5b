package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// GetTaskInput contains the parameters for showing one task.
type GetTaskInput struct {
	ID       string // Task reference ("T0012", "t12", or "12")
	WithBody bool   // Also read the markdown body
}

// GetTaskOutput contains the result of showing one task.
type GetTaskOutput struct {
	Task *domain.Task // The task
	Body string       // Task body (when requested)
	Now  time.Time    // Time of the lookup, for lease display
}

// GetTask is the use case for showing one task in detail.
type GetTask struct {
	store domain.TaskStore
	clock domain.Clock
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(store domain.TaskStore, clock domain.Clock) *GetTask {
	return &GetTask{
		store: store,
		clock: clock,
	}
}

// Execute looks up the task by reference.
func (uc *GetTask) Execute(_ context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	out := &GetTaskOutput{Now: uc.clock.Now()}
	err := uc.store.View(func(ix *domain.Index) error {
		t, err := ix.Resolve(in.ID)
		if err != nil {
			return err
		}
		out.Task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.WithBody {
		body, err := uc.store.ReadBody(out.Task.ID)
		if err != nil {
			return nil, fmt.Errorf("read task body: %w", err)
		}
		out.Body = body
	}

	return out, nil
}
