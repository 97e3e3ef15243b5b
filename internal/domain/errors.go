package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUnknownBlocker     = errors.New("unknown blocker")
	ErrBlockerNotSet      = errors.New("blocker not set on task")
	ErrCycleDetected      = errors.New("dependency cycle detected")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrAlreadyInitialized = errors.New("task store already initialized")
	ErrNotInitialized     = errors.New("task store not initialized (run 'taskq init' first)")
	ErrStoreInvalid       = errors.New("task store failed validation")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrEmptyFile          = errors.New("file is empty")
	ErrNoTasksInFile      = errors.New("no tasks found in file")
	ErrInvalidBlockerRef  = errors.New("invalid blocker reference")
	ErrConfigExists       = errors.New("config file already exists")
	ErrNotGitRepository   = errors.New("not a git repository (or any of the parent directories)")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
)

// Infrastructure errors. Both are fatal for the invoking command.
var (
	ErrCorruptStore = errors.New("corrupt task index")
	ErrLockTimeout  = errors.New("timed out waiting for the index lock")
)
