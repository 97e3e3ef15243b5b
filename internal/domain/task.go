// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaskIDPrefix starts every canonical task id.
const TaskIDPrefix = "T"

// minIDWidth is the minimum zero-padded width of the numeric part of an id.
const minIDWidth = 4

// Task represents one unit of work in the queue.
// Fields follow the persisted document order.
type Task struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Status         Status     `json:"status" yaml:"status"`
	BlockedBy      []string   `json:"blocked_by" yaml:"blocked_by"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" yaml:"updated_at"`
	ClaimedBy      string     `json:"claimed_by,omitempty" yaml:"claimed_by,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty" yaml:"claimed_at,omitempty"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty" yaml:"lease_expires_at,omitempty"`
}

// HasClaim returns true if all three claim fields are populated.
// Invariant: claim metadata is present together or absent together.
func (t *Task) HasClaim() bool {
	return t.ClaimedBy != "" && t.ClaimedAt != nil && t.LeaseExpiresAt != nil
}

// LeaseExpired returns true if the task holds a lease that expired
// strictly before now.
func (t *Task) LeaseExpired(now time.Time) bool {
	return t.LeaseExpiresAt != nil && t.LeaseExpiresAt.Before(now)
}

// ClearClaim removes all claim metadata.
func (t *Task) ClearClaim() {
	t.ClaimedBy = ""
	t.ClaimedAt = nil
	t.LeaseExpiresAt = nil
}

// IsBlockedBy reports whether blockerID is recorded on the task.
func (t *Task) IsBlockedBy(blockerID string) bool {
	for _, b := range t.BlockedBy {
		if b == blockerID {
			return true
		}
	}
	return false
}

// FormatTaskID renders a sequence number as a canonical task id.
// The numeric part is zero-padded to at least four digits and grows
// naturally once the allocator passes 9999.
func FormatTaskID(n int) string {
	width := minIDWidth
	if digits := len(strconv.Itoa(n)); digits > width {
		width = digits
	}
	return fmt.Sprintf("%s%0*d", TaskIDPrefix, width, n)
}

// ParseTaskID extracts the sequence number from a task id reference.
// Canonical ids ("T0012"), lowercase prefixes ("t12"), and bare numbers
// ("12") are all accepted so that references stay valid after the id
// width grows.
func ParseTaskID(ref string) (int, error) {
	s := strings.TrimSpace(ref)
	if len(s) > 0 && (s[0] == 'T' || s[0] == 't') {
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	return n, nil
}

// UTCSecond normalizes a timestamp to UTC at second precision, the
// resolution persisted in the index.
func UTCSecond(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
