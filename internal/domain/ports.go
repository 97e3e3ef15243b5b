package domain

import "time"

// StoreInitializer creates the on-disk task store.
type StoreInitializer interface {
	// Initialize creates the store layout. Returns ErrAlreadyInitialized
	// if an index already exists.
	Initialize() error
}

// TaskStore persists the task index and task bodies. View and Update
// run fn against a decoded index while holding the store lock, so
// read-modify-write sequences are atomic with respect to other
// processes on the same host.
type TaskStore interface {
	// Load returns the decoded index together with the raw bytes it was
	// decoded from. Both come from a single read under the lock.
	Load() (*Index, []byte, error)

	// View runs fn against the index under a shared lock. Mutations made
	// by fn are discarded.
	View(fn func(ix *Index) error) error

	// Update runs fn against the index under an exclusive lock and
	// persists the result atomically. If fn returns an error nothing is
	// written.
	Update(fn func(ix *Index) error) error

	// ReadBody returns the markdown body for a task. A missing body file
	// is an empty body, not an error.
	ReadBody(id string) (string, error)

	// WriteBody stores the markdown body for a task.
	WriteBody(id, body string) error
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Ref   string // Full reference name
	Label string // Short label shown in listings
	Seq   int    // Sequence number within the namespace
}

// SnapshotStore archives point-in-time copies of the index and bodies.
type SnapshotStore interface {
	// Save stores a snapshot of the index and the given bodies.
	Save(ix *Index, bodies map[string]string) (SnapshotInfo, error)

	// List returns all snapshots, oldest first.
	List() ([]SnapshotInfo, error)

	// Restore returns the index and bodies stored under ref.
	Restore(ref string) (*Index, map[string]string, error)
}

// SnapshotOpener defers locating the snapshot backend until a snapshot
// command actually runs, so commands that never touch snapshots work
// outside a Git repository.
type SnapshotOpener func() (SnapshotStore, error)

// SchemaValidator checks a raw index document against the persisted
// document schema.
type SchemaValidator interface {
	// Validate returns one inconsistency per schema violation.
	Validate(raw []byte) ([]Inconsistency, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + store).
	Load() (Config, error)
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	// GetStoreConfigInfo returns information about the store config file.
	GetStoreConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitStoreConfig creates the store config file from the template.
	InitStoreConfig() error

	// InitGlobalConfig creates the global config file from the template.
	InitGlobalConfig() error
}

// Logger writes structured entries to the queue log.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(taskID, category, msg string)

	// Info logs an info-level message.
	Info(taskID, category, msg string)

	// Warn logs a warning-level message.
	Warn(taskID, category, msg string)

	// Error logs an error-level message.
	Error(taskID, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
