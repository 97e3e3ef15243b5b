package domain

import (
	"fmt"
	"slices"
)

// NormalizeBlockers resolves blocker references against the index,
// deduplicates them, and returns canonical ids sorted by sequence
// number. Unresolvable references fail with ErrUnknownBlocker.
func NormalizeBlockers(ix *Index, refs []string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		n, err := ParseTaskID(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBlocker, ref)
		}
		id := ""
		for _, t := range ix.Tasks {
			if seq, perr := ParseTaskID(t.ID); perr == nil && seq == n {
				id = t.ID
				break
			}
		}
		if id == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBlocker, ref)
		}
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	SortTaskIDs(ids)
	return ids, nil
}

// SortTaskIDs orders canonical ids by their sequence numbers.
func SortTaskIDs(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		na, _ := ParseTaskID(a)
		nb, _ := ParseTaskID(b)
		return na - nb
	})
}

// ValidateNewBlockers rejects blocker additions that would break
// referential integrity or make taskID reachable from itself by
// following blocked_by edges.
func ValidateNewBlockers(ix *Index, taskID string, blockerIDs []string) error {
	for _, id := range blockerIDs {
		if ix.Find(id) == nil {
			return fmt.Errorf("%w: %s", ErrUnknownBlocker, id)
		}
		if id == taskID {
			return fmt.Errorf("%w: %s cannot block itself", ErrCycleDetected, taskID)
		}
		if reaches(ix, id, taskID) {
			return fmt.Errorf("%w: adding edge %s -> %s", ErrCycleDetected, taskID, id)
		}
	}
	return nil
}

// reaches reports whether target is reachable from start by following
// blocked_by edges.
func reaches(ix *Index, start, target string) bool {
	stack := []string{start}
	visited := make(map[string]bool)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if t := ix.Find(id); t != nil {
			stack = append(stack, t.BlockedBy...)
		}
	}
	return false
}

// Inconsistency is a single finding from the full-store scan.
type Inconsistency struct {
	TaskID  string `json:"task_id,omitempty"`
	Message string `json:"message"`
}

func (i Inconsistency) String() string {
	if i.TaskID == "" {
		return i.Message
	}
	return i.TaskID + ": " + i.Message
}

// ValidateIndex performs the full-store consistency scan: id uniqueness
// and allocator bounds, blocker referential integrity, acyclicity of
// the whole blocked_by graph, status validity, and claim-field
// coherence. It returns the empty list when the index is consistent.
func ValidateIndex(ix *Index) []Inconsistency {
	var issues []Inconsistency
	report := func(taskID, format string, args ...any) {
		issues = append(issues, Inconsistency{TaskID: taskID, Message: fmt.Sprintf(format, args...)})
	}

	if ix.Version != IndexVersion {
		report("", "unsupported index version %d", ix.Version)
	}
	if ix.NextID < 1 {
		report("", "next_id must be at least 1, got %d", ix.NextID)
	}

	seen := make(map[string]bool, len(ix.Tasks))
	for _, t := range ix.Tasks {
		if seen[t.ID] {
			report(t.ID, "duplicate task id")
		}
		seen[t.ID] = true

		if seq, err := ParseTaskID(t.ID); err != nil {
			report(t.ID, "malformed task id")
		} else if seq >= ix.NextID {
			report(t.ID, "id is not below next_id (%d)", ix.NextID)
		}

		if !t.Status.IsValid() {
			report(t.ID, "invalid status %q", string(t.Status))
		}

		for _, b := range t.BlockedBy {
			switch {
			case b == t.ID:
				report(t.ID, "task blocks itself")
			case ix.Find(b) == nil:
				report(t.ID, "unknown blocker %s", b)
			}
		}

		claims := 0
		if t.ClaimedBy != "" {
			claims++
		}
		if t.ClaimedAt != nil {
			claims++
		}
		if t.LeaseExpiresAt != nil {
			claims++
		}
		switch {
		case claims != 0 && claims != 3:
			report(t.ID, "partial claim metadata (claimed_by, claimed_at, lease_expires_at must be set together)")
		case t.Status == StatusInProgress && claims == 0:
			report(t.ID, "in_progress without claim metadata")
		case t.Status != StatusInProgress && claims == 3:
			report(t.ID, "claim metadata on %s task", string(t.Status))
		}
	}

	return append(issues, findCycles(ix)...)
}

// findCycles runs a three-color depth-first search over the blocked_by
// graph and reports one inconsistency per back edge.
func findCycles(ix *Index) []Inconsistency {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(ix.Tasks))
	var issues []Inconsistency

	var visit func(t *Task)
	visit = func(t *Task) {
		state[t.ID] = visiting
		for _, b := range t.BlockedBy {
			bt := ix.Find(b)
			if bt == nil {
				continue // reported as an unknown blocker already
			}
			switch state[b] {
			case unvisited:
				visit(bt)
			case visiting:
				issues = append(issues, Inconsistency{
					TaskID:  t.ID,
					Message: fmt.Sprintf("dependency cycle through edge %s -> %s", t.ID, b),
				})
			}
		}
		state[t.ID] = done
	}

	for _, t := range ix.Tasks {
		if state[t.ID] == unvisited {
			visit(t)
		}
	}
	return issues
}
