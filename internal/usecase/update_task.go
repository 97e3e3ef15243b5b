package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// UpdateTaskInput contains the parameters for updating a task. Exactly
// one change may be requested per invocation.
type UpdateTaskInput struct {
	ID            string  // Task reference (required)
	AddBlocker    string  // Blocker reference to add
	RemoveBlocker string  // Blocker reference to remove
	Status        string  // New status
	Body          *string // New markdown body (nil = unchanged)
}

func (in UpdateTaskInput) changes() int {
	n := 0
	if in.AddBlocker != "" {
		n++
	}
	if in.RemoveBlocker != "" {
		n++
	}
	if in.Status != "" {
		n++
	}
	if in.Body != nil {
		n++
	}
	return n
}

// UpdateTaskOutput contains the result of updating a task.
type UpdateTaskOutput struct {
	Task *domain.Task // The updated task
}

// UpdateTask is the use case for applying one edit to a task.
type UpdateTask struct {
	store  domain.TaskStore
	config domain.ConfigLoader
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(store domain.TaskStore, config domain.ConfigLoader, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{
		store:  store,
		config: config,
		clock:  clock,
		logger: logger,
	}
}

// Execute applies the requested change. Status edits keep the claim
// fields coherent: moving a task to in_progress grants a default lease,
// any other target clears the claim.
func (uc *UpdateTask) Execute(_ context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	switch {
	case in.changes() == 0:
		return nil, domain.ErrNoFieldsToUpdate
	case in.changes() > 1:
		return nil, errors.New("multiple changes requested, use one flag per invocation")
	}

	// A direct move to in_progress needs a claimant and lease from the
	// configuration.
	var claimant string
	var lease time.Duration
	if in.Status != "" {
		cfg, err := uc.config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		claimant = cfg.EffectiveClaimant()
		lease = time.Duration(cfg.LeaseSeconds) * time.Second
	}

	var updated *domain.Task
	var logCategory, logMsg string
	err := uc.store.Update(func(ix *domain.Index) error {
		t, err := ix.Resolve(in.ID)
		if err != nil {
			return err
		}
		now := uc.clock.Now()

		switch {
		case in.AddBlocker != "":
			id, addErr := addBlocker(ix, t, in.AddBlocker, now)
			if addErr != nil {
				return addErr
			}
			logCategory, logMsg = "blocker", "added blocker "+id
		case in.RemoveBlocker != "":
			id, removeErr := removeBlocker(t, in.RemoveBlocker, now)
			if removeErr != nil {
				return removeErr
			}
			logCategory, logMsg = "blocker", "removed blocker "+id
		case in.Status != "":
			status, parseErr := domain.ParseStatus(in.Status)
			if parseErr != nil {
				return parseErr
			}
			applyStatus(t, status, claimant, lease, now)
			logCategory, logMsg = "status", "status set to "+string(status)
		case in.Body != nil:
			t.UpdatedAt = domain.UTCSecond(now)
			logCategory, logMsg = "body", "body updated"
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Body != nil {
		if err := uc.store.WriteBody(updated.ID, *in.Body); err != nil {
			return nil, fmt.Errorf("write task body: %w", err)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(updated.ID, logCategory, logMsg)
	}

	return &UpdateTaskOutput{Task: updated}, nil
}

// addBlocker resolves, validates, and attaches one blocker edge. Adding
// an edge that is already present is a no-op.
func addBlocker(ix *domain.Index, t *domain.Task, ref string, now time.Time) (string, error) {
	blockers, err := domain.NormalizeBlockers(ix, []string{ref})
	if err != nil {
		return "", err
	}
	id := blockers[0]
	if t.IsBlockedBy(id) {
		return id, nil
	}
	if err := domain.ValidateNewBlockers(ix, t.ID, []string{id}); err != nil {
		return "", err
	}
	t.BlockedBy = append(t.BlockedBy, id)
	domain.SortTaskIDs(t.BlockedBy)
	t.UpdatedAt = domain.UTCSecond(now)
	return id, nil
}

// removeBlocker detaches one blocker edge. References are matched by
// sequence number, like everywhere else.
func removeBlocker(t *domain.Task, ref string, now time.Time) (string, error) {
	n, err := domain.ParseTaskID(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrBlockerNotSet, ref)
	}
	for i, b := range t.BlockedBy {
		if seq, perr := domain.ParseTaskID(b); perr == nil && seq == n {
			t.BlockedBy = append(t.BlockedBy[:i], t.BlockedBy[i+1:]...)
			t.UpdatedAt = domain.UTCSecond(now)
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrBlockerNotSet, ref)
}

// applyStatus sets the status while keeping the claim fields coherent.
// A task already running under a live lease keeps its claim when set to
// in_progress again.
func applyStatus(t *domain.Task, status domain.Status, claimant string, lease time.Duration, now time.Time) {
	if status == domain.StatusInProgress {
		if t.Status == domain.StatusInProgress && !t.LeaseExpired(now) {
			t.UpdatedAt = domain.UTCSecond(now)
			return
		}
		domain.GrantLease(t, claimant, lease, now)
		return
	}
	t.Status = status
	t.ClearClaim()
	t.UpdatedAt = domain.UTCSecond(now)
}
