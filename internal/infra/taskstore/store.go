// Package taskstore persists the task index and task bodies on the
// local filesystem, guarded by an advisory file lock so uncoordinated
// processes on one host can share the queue safely.
package taskstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// lockRetryInterval is how often a blocked process re-attempts the lock.
const lockRetryInterval = 25 * time.Millisecond

// Store implements domain.TaskStore using a JSON index file plus
// per-task markdown bodies under <root>/tasks/.
type Store struct {
	dir         string
	indexPath   string
	lockPath    string
	itemsDir    string
	lockTimeout time.Duration
}

// New creates a Store rooted at rootDir. lockTimeout bounds how long
// operations wait for the index lock before failing with
// domain.ErrLockTimeout.
func New(rootDir string, lockTimeout time.Duration) *Store {
	return &Store{
		dir:         domain.StoreDir(rootDir),
		indexPath:   domain.IndexPath(rootDir),
		lockPath:    domain.LockPath(rootDir),
		itemsDir:    domain.ItemsDir(rootDir),
		lockTimeout: lockTimeout,
	}
}

// Initialize creates the store layout with an empty index.
func (s *Store) Initialize() error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	if _, err := os.Stat(s.indexPath); err == nil {
		return domain.ErrAlreadyInitialized
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat index: %w", err)
	}

	if err := os.MkdirAll(s.itemsDir, 0o750); err != nil {
		return fmt.Errorf("create items directory: %w", err)
	}

	return s.writeIndex(domain.NewIndex())
}

// Load returns the decoded index together with the raw bytes it was
// decoded from, both read under a shared lock.
func (s *Store) Load() (*domain.Index, []byte, error) {
	var (
		ix  *domain.Index
		raw []byte
	)
	err := s.withLock(func() error {
		var err error
		ix, raw, err = s.readIndex()
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return ix, raw, nil
}

// View executes fn against the index under a shared lock. Mutations
// made by fn are discarded.
func (s *Store) View(fn func(ix *domain.Index) error) error {
	return s.withLock(func() error {
		ix, _, err := s.readIndex()
		if err != nil {
			return err
		}
		return fn(ix)
	})
}

// Update executes fn against the index under an exclusive lock and
// persists the result atomically. If fn fails nothing is written.
func (s *Store) Update(fn func(ix *domain.Index) error) error {
	return s.withLockWrite(func() error {
		ix, _, err := s.readIndex()
		if err != nil {
			return err
		}
		if err := fn(ix); err != nil {
			return err
		}
		return s.writeIndex(ix)
	})
}

// ReadBody returns the markdown body for a task. Bodies are optional
// sidecars to the index, so a missing file reads as empty.
func (s *Store) ReadBody(id string) (string, error) {
	content, err := os.ReadFile(s.bodyPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read task body: %w", err)
	}
	return string(content), nil
}

// WriteBody stores the markdown body for a task.
func (s *Store) WriteBody(id, body string) error {
	if err := os.MkdirAll(s.itemsDir, 0o750); err != nil {
		return fmt.Errorf("create items directory: %w", err)
	}
	return writeAtomic(s.bodyPath(id), []byte(body), 0o644)
}

func (s *Store) bodyPath(id string) string {
	return filepath.Join(s.itemsDir, id+".md")
}

// withLock executes fn while holding a shared (read) lock.
func (s *Store) withLock(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

// withLockWrite executes fn while holding an exclusive (write) lock.
func (s *Store) withLockWrite(fn func() error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

// acquireLock takes the advisory lock on the lock file, polling in
// non-blocking mode so the wait can be bounded by lockTimeout.
func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(s.lockTimeout)
	for {
		err := syscall.Flock(int(lock.Fd()), lockType|syscall.LOCK_NB)
		if err == nil {
			return lock, nil
		}
		if err != syscall.EWOULDBLOCK {
			_ = lock.Close()
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if time.Now().After(deadline) {
			_ = lock.Close()
			return nil, domain.ErrLockTimeout
		}
		time.Sleep(lockRetryInterval)
	}
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) readIndex() (*domain.Index, []byte, error) {
	content, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrNotInitialized
		}
		return nil, nil, fmt.Errorf("read index: %w", err)
	}

	ix, err := decodeIndex(content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}
	return ix, content, nil
}

func (s *Store) writeIndex(ix *domain.Index) error {
	content, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return writeAtomic(s.indexPath, content, 0o644)
}

// indexPayload mirrors domain.Index with pointer fields so that missing
// required keys are detectable after a strict decode.
type indexPayload struct {
	Version *int           `json:"version"`
	NextID  *int           `json:"next_id"`
	Tasks   *[]taskPayload `json:"tasks"`
}

type taskPayload struct {
	ID             *string  `json:"id"`
	Title          *string  `json:"title"`
	Status         *string  `json:"status"`
	BlockedBy      []string `json:"blocked_by"`
	CreatedAt      *string  `json:"created_at"`
	UpdatedAt      *string  `json:"updated_at"`
	ClaimedBy      string   `json:"claimed_by"`
	ClaimedAt      *string  `json:"claimed_at"`
	LeaseExpiresAt *string  `json:"lease_expires_at"`
}

// decodeIndex decodes and structurally validates an index document.
// Semantic checks (referential integrity, claim coherence, cycles) are
// left to domain.ValidateIndex so that a loadable but inconsistent
// store can still be inspected.
func decodeIndex(content []byte) (*domain.Index, error) {
	var payload indexPayload
	if err := decodeJSONStrict(content, &payload); err != nil {
		return nil, err
	}
	if payload.Version == nil || payload.NextID == nil || payload.Tasks == nil {
		return nil, errors.New("index missing required fields")
	}

	ix := &domain.Index{
		Version: *payload.Version,
		NextID:  *payload.NextID,
		Tasks:   make([]*domain.Task, 0, len(*payload.Tasks)),
	}
	for i, tp := range *payload.Tasks {
		task, err := decodeTask(tp)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		ix.Tasks = append(ix.Tasks, task)
	}
	return ix, nil
}

func decodeTask(p taskPayload) (*domain.Task, error) {
	if p.ID == nil || p.Title == nil || p.Status == nil || p.CreatedAt == nil || p.UpdatedAt == nil {
		return nil, errors.New("missing required fields")
	}

	createdAt, err := time.Parse(time.RFC3339, *p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %v", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, *p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %v", err)
	}

	task := &domain.Task{
		ID:        *p.ID,
		Title:     *p.Title,
		Status:    domain.Status(*p.Status),
		BlockedBy: p.BlockedBy,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		ClaimedBy: p.ClaimedBy,
	}
	if task.BlockedBy == nil {
		task.BlockedBy = []string{}
	}

	if p.ClaimedAt != nil {
		at, err := time.Parse(time.RFC3339, *p.ClaimedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid claimed_at: %v", err)
		}
		task.ClaimedAt = &at
	}
	if p.LeaseExpiresAt != nil {
		at, err := time.Parse(time.RFC3339, *p.LeaseExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid lease_expires_at: %v", err)
		}
		task.LeaseExpiresAt = &at
	}
	return task, nil
}

func decodeJSONStrict(content []byte, v any) error {
	dec := json.NewDecoder(strings.NewReader(string(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected trailing content")
	}
	return nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Ensure Store implements the domain ports.
var (
	_ domain.StoreInitializer = (*Store)(nil)
	_ domain.TaskStore        = (*Store)(nil)
)
