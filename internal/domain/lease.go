package domain

import "time"

// IsReady reports whether a task could be claimed at now: not done, not
// held under a live lease, and every blocker exists and is done. A task
// whose lease has already expired counts as ready; start reclaims it
// before claiming.
func IsReady(t *Task, ix *Index, now time.Time) bool {
	switch t.Status {
	case StatusDone:
		return false
	case StatusInProgress:
		if !t.LeaseExpired(now) {
			return false
		}
	}
	for _, b := range t.BlockedBy {
		bt := ix.Find(b)
		if bt == nil || bt.Status != StatusDone {
			return false
		}
	}
	return true
}

// ListReady returns all claimable tasks in creation order.
func ListReady(ix *Index, now time.Time) []*Task {
	var ready []*Task
	for _, t := range ix.Tasks {
		if IsReady(t, ix, now) {
			ready = append(ready, t)
		}
	}
	return ready
}

// ReclaimExpired returns every in_progress task whose lease expired
// before now to ready, clearing claim metadata. The reclaimed ids are
// returned for logging.
func ReclaimExpired(ix *Index, now time.Time) []string {
	var reclaimed []string
	for _, t := range ix.Tasks {
		if t.Status == StatusInProgress && t.LeaseExpired(now) {
			t.Status = StatusReady
			t.ClearClaim()
			t.UpdatedAt = UTCSecond(now)
			reclaimed = append(reclaimed, t.ID)
		}
	}
	return reclaimed
}

// Claim selects the first ready task in creation order and grants
// claimant a lease on it. A nil return means nothing is ready, which is
// a normal outcome, not an error.
func Claim(ix *Index, claimant string, lease time.Duration, now time.Time) *Task {
	for _, t := range ix.Tasks {
		if !IsReady(t, ix, now) {
			continue
		}
		GrantLease(t, claimant, lease, now)
		return t
	}
	return nil
}

// GrantLease marks the task claimed by claimant until now+lease.
func GrantLease(t *Task, claimant string, lease time.Duration, now time.Time) {
	claimedAt := UTCSecond(now)
	expiresAt := UTCSecond(now.Add(lease))
	t.Status = StatusInProgress
	t.ClaimedBy = claimant
	t.ClaimedAt = &claimedAt
	t.LeaseExpiresAt = &expiresAt
	t.UpdatedAt = claimedAt
}

// Release clears claim metadata and returns the task to ready. There is
// no claimant check: release is an administrative override.
func Release(t *Task, now time.Time) {
	t.Status = StatusReady
	t.ClearClaim()
	t.UpdatedAt = UTCSecond(now)
}

// Finish moves the task to done, clearing any claim.
func Finish(t *Task, now time.Time) {
	t.Status = StatusDone
	t.ClearClaim()
	t.UpdatedAt = UTCSecond(now)
}
