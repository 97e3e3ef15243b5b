package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// StartTaskInput contains the parameters for claiming the next ready
// task.
type StartTaskInput struct {
	Claimant     string // Claimant identity (empty = from config)
	LeaseSeconds int    // Lease duration in seconds (0 = from config)
	WithBody     bool   // Include the task body in the output
}

// StartTaskOutput contains the result of claiming a task.
type StartTaskOutput struct {
	Task      *domain.Task // The claimed task, or nil when nothing is ready
	Body      string       // Task body (when requested)
	Reclaimed []string     // Tasks whose expired leases were reclaimed
}

// StartTask is the use case for claiming the next ready task under a
// lease.
type StartTask struct {
	store  domain.TaskStore
	config domain.ConfigLoader
	clock  domain.Clock
	logger domain.Logger
}

// NewStartTask creates a new StartTask use case.
func NewStartTask(store domain.TaskStore, config domain.ConfigLoader, clock domain.Clock, logger domain.Logger) *StartTask {
	return &StartTask{
		store:  store,
		config: config,
		clock:  clock,
		logger: logger,
	}
}

// Execute reclaims expired leases, then claims the first ready task in
// creation order. Finding nothing ready is a normal outcome: the output
// task is nil and no error is returned. Reclaims are persisted even
// when nothing was claimable.
func (uc *StartTask) Execute(_ context.Context, in StartTaskInput) (*StartTaskOutput, error) {
	cfg, err := uc.config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	claimant := in.Claimant
	if claimant == "" {
		claimant = cfg.EffectiveClaimant()
	}
	leaseSeconds := in.LeaseSeconds
	if leaseSeconds <= 0 {
		leaseSeconds = cfg.LeaseSeconds
	}
	lease := time.Duration(leaseSeconds) * time.Second

	out := &StartTaskOutput{}
	err = uc.store.Update(func(ix *domain.Index) error {
		now := uc.clock.Now()
		out.Reclaimed = domain.ReclaimExpired(ix, now)
		out.Task = domain.Claim(ix, claimant, lease, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Task != nil && in.WithBody {
		body, err := uc.store.ReadBody(out.Task.ID)
		if err != nil {
			return nil, fmt.Errorf("read task body: %w", err)
		}
		out.Body = body
	}

	if uc.logger != nil {
		for _, id := range out.Reclaimed {
			uc.logger.Info(id, "lease", "lease expired, task returned to ready")
		}
		if out.Task != nil {
			uc.logger.Info(out.Task.ID, "claim", fmt.Sprintf("claimed by %s until %s",
				out.Task.ClaimedBy, out.Task.LeaseExpiresAt.Format(time.RFC3339)))
		}
	}

	return out, nil
}
