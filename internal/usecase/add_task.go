package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskq/internal/domain"
)

// AddTaskInput contains the parameters for creating a task.
type AddTaskInput struct {
	Title     string   // Task title (required)
	Body      string   // Markdown body (optional)
	BlockedBy []string // Blocker references (optional)
}

// AddTaskOutput contains the result of creating a task.
type AddTaskOutput struct {
	Task *domain.Task // The created task
}

// AddTask is the use case for creating a task.
type AddTask struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *AddTask {
	return &AddTask{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute appends a new ready task to the index.
func (uc *AddTask) Execute(_ context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	// Validate title
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	var created *domain.Task
	err := uc.store.Update(func(ix *domain.Index) error {
		blockers, err := domain.NormalizeBlockers(ix, in.BlockedBy)
		if err != nil {
			return err
		}
		if blockers == nil {
			blockers = []string{}
		}

		now := domain.UTCSecond(uc.clock.Now())
		created = &domain.Task{
			ID:        ix.Allocate(),
			Title:     title,
			Status:    domain.StatusReady,
			BlockedBy: blockers,
			CreatedAt: now,
			UpdatedAt: now,
		}
		ix.Tasks = append(ix.Tasks, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The body is a sidecar file, written outside the index critical
	// section.
	if in.Body != "" {
		if err := uc.store.WriteBody(created.ID, in.Body); err != nil {
			return nil, fmt.Errorf("write task body: %w", err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(created.ID, "task", fmt.Sprintf("created: %q", title))
	}

	return &AddTaskOutput{Task: created}, nil
}
