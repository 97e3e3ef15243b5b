package domain

import "fmt"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusReady      Status = "ready"       // Claimable once every blocker is done
	StatusInProgress Status = "in_progress" // Claimed under a lease
	StatusDone       Status = "done"        // Terminal
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusReady, StatusInProgress, StatusDone}
}

// ParseStatus converts a string to a Status, failing on unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: ready, in_progress, done)", ErrInvalidStatus, s)
	}
	return st, nil
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusReady, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}
