package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskq/internal/domain"
)

// AddTasksFromFileInput contains the parameters for creating tasks from
// a draft file.
type AddTasksFromFileInput struct {
	Content string // Draft file content (frontmatter blocks with bodies)
}

// AddTasksFromFileOutput contains the result of creating tasks from a
// draft file.
type AddTasksFromFileOutput struct {
	Tasks []*domain.Task // Created tasks, in file order
}

// AddTasksFromFile is the use case for creating several tasks from one
// draft file.
type AddTasksFromFile struct {
	store  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewAddTasksFromFile creates a new AddTasksFromFile use case.
func NewAddTasksFromFile(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *AddTasksFromFile {
	return &AddTasksFromFile{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Execute parses the drafts and creates all of them in one index
// update, so a bad draft in the middle leaves the store untouched.
// Numeric blocker references resolve to earlier tasks in the same file;
// id references resolve against the whole index.
func (uc *AddTasksFromFile) Execute(_ context.Context, in AddTasksFromFileInput) (*AddTasksFromFileOutput, error) {
	drafts, err := domain.ParseTaskDrafts(in.Content)
	if err != nil {
		return nil, err
	}

	var created []*domain.Task
	bodies := make(map[string]string)
	err = uc.store.Update(func(ix *domain.Index) error {
		createdIDs := make([]string, 0, len(drafts))
		now := domain.UTCSecond(uc.clock.Now())

		for i, draft := range drafts {
			refs := make([]string, 0, len(draft.BlockedByRefs))
			for _, ref := range draft.BlockedByRefs {
				resolved, resolveErr := domain.ResolveDraftBlocker(ref, createdIDs)
				if resolveErr != nil {
					return fmt.Errorf("task %d: %w", i+1, resolveErr)
				}
				refs = append(refs, resolved)
			}

			blockers, normErr := domain.NormalizeBlockers(ix, refs)
			if normErr != nil {
				return fmt.Errorf("task %d: %w", i+1, normErr)
			}
			if blockers == nil {
				blockers = []string{}
			}

			task := &domain.Task{
				ID:        ix.Allocate(),
				Title:     draft.Title,
				Status:    domain.StatusReady,
				BlockedBy: blockers,
				CreatedAt: now,
				UpdatedAt: now,
			}
			ix.Tasks = append(ix.Tasks, task)
			createdIDs = append(createdIDs, task.ID)
			created = append(created, task)
			if draft.Body != "" {
				bodies[task.ID] = draft.Body
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Bodies are sidecar files, written after the index commit.
	for _, task := range created {
		body, ok := bodies[task.ID]
		if !ok {
			continue
		}
		if err := uc.store.WriteBody(task.ID, body); err != nil {
			return nil, fmt.Errorf("write body for %s: %w", task.ID, err)
		}
	}

	if uc.logger != nil {
		for _, task := range created {
			uc.logger.Info(task.ID, "task", fmt.Sprintf("created from file: %q", task.Title))
		}
	}

	return &AddTasksFromFileOutput{Tasks: created}, nil
}
