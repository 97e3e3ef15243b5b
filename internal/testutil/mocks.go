// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"encoding/json"
	"time"

	"github.com/runoshun/taskq/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskStore is an in-memory test double for domain.TaskStore.
// Update runs fn against a copy and commits it only on success,
// mirroring the real store's all-or-nothing writes.
type MockTaskStore struct {
	Index        *domain.Index
	Bodies       map[string]string
	Raw          []byte
	LoadErr      error
	UpdateErr    error
	ReadBodyErr  error
	WriteBodyErr error
}

// NewMockTaskStore creates an initialized MockTaskStore with an empty index.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Index:  domain.NewIndex(),
		Bodies: make(map[string]string),
	}
}

// Ensure MockTaskStore implements domain.TaskStore interface.
var _ domain.TaskStore = (*MockTaskStore)(nil)

// Load returns the index and its serialized form.
func (m *MockTaskStore) Load() (*domain.Index, []byte, error) {
	if m.LoadErr != nil {
		return nil, nil, m.LoadErr
	}
	if m.Index == nil {
		return nil, nil, domain.ErrNotInitialized
	}
	raw := m.Raw
	if raw == nil {
		var err error
		raw, err = json.MarshalIndent(m.Index, "", "  ")
		if err != nil {
			return nil, nil, err
		}
	}
	return m.Index, raw, nil
}

// View runs fn against the live index.
func (m *MockTaskStore) View(fn func(ix *domain.Index) error) error {
	if m.LoadErr != nil {
		return m.LoadErr
	}
	if m.Index == nil {
		return domain.ErrNotInitialized
	}
	return fn(m.Index)
}

// Update runs fn against a copy and commits it only if fn succeeds.
func (m *MockTaskStore) Update(fn func(ix *domain.Index) error) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Index == nil {
		return domain.ErrNotInitialized
	}
	work := cloneIndex(m.Index)
	if err := fn(work); err != nil {
		return err
	}
	m.Index = work
	return nil
}

// ReadBody returns the stored body, or empty when absent.
func (m *MockTaskStore) ReadBody(id string) (string, error) {
	if m.ReadBodyErr != nil {
		return "", m.ReadBodyErr
	}
	return m.Bodies[id], nil
}

// WriteBody stores the body.
func (m *MockTaskStore) WriteBody(id, body string) error {
	if m.WriteBodyErr != nil {
		return m.WriteBodyErr
	}
	m.Bodies[id] = body
	return nil
}

func cloneIndex(ix *domain.Index) *domain.Index {
	data, err := json.Marshal(ix)
	if err != nil {
		panic(err)
	}
	var clone domain.Index
	if err := json.Unmarshal(data, &clone); err != nil {
		panic(err)
	}
	return &clone
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	Initialized bool
	InitErr     error
}

// Ensure MockStoreInitializer implements domain.StoreInitializer interface.
var _ domain.StoreInitializer = (*MockStoreInitializer)(nil)

// Initialize records the call and returns the configured error.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a MockConfigLoader with the default
// configuration and a fixed claimant.
func NewMockConfigLoader() *MockConfigLoader {
	cfg := domain.NewDefaultConfig()
	cfg.Claimant = "worker-1"
	return &MockConfigLoader{Config: cfg}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (domain.Config, error) {
	if m.LoadErr != nil {
		return domain.Config{}, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	StoreConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitStoreErr     error
	InitGlobalErr    error
	InitStoreCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a MockConfigManager with neither config
// file present.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		StoreConfigInfo: domain.ConfigInfo{
			Path:   "/test/.taskq/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/taskq/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetStoreConfigInfo returns the configured store config info.
func (m *MockConfigManager) GetStoreConfigInfo() domain.ConfigInfo {
	return m.StoreConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitStoreConfig records the call and returns the configured error.
func (m *MockConfigManager) InitStoreConfig() error {
	m.InitStoreCalled = true
	return m.InitStoreErr
}

// InitGlobalConfig records the call and returns the configured error.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}

// MockSnapshotStore is a test double for domain.SnapshotStore.
type MockSnapshotStore struct {
	SavedIndex  *domain.Index
	SavedBodies map[string]string
	SaveInfo    domain.SnapshotInfo
	SaveErr     error

	Snapshots []domain.SnapshotInfo
	ListErr   error

	RestoreIndex  *domain.Index
	RestoreBodies map[string]string
	RestoreErr    error
	RestoredRef   string
}

// Ensure MockSnapshotStore implements domain.SnapshotStore interface.
var _ domain.SnapshotStore = (*MockSnapshotStore)(nil)

// Save records the snapshot contents and returns the configured info.
func (m *MockSnapshotStore) Save(ix *domain.Index, bodies map[string]string) (domain.SnapshotInfo, error) {
	if m.SaveErr != nil {
		return domain.SnapshotInfo{}, m.SaveErr
	}
	m.SavedIndex = ix
	m.SavedBodies = bodies
	return m.SaveInfo, nil
}

// List returns the configured snapshots or error.
func (m *MockSnapshotStore) List() ([]domain.SnapshotInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Snapshots, nil
}

// Restore records the ref and returns the configured index and bodies.
func (m *MockSnapshotStore) Restore(ref string) (*domain.Index, map[string]string, error) {
	if m.RestoreErr != nil {
		return nil, nil, m.RestoreErr
	}
	m.RestoredRef = ref
	return m.RestoreIndex, m.RestoreBodies, nil
}

// SnapshotOpener wraps a snapshot store (or an open failure) as a
// domain.SnapshotOpener.
func SnapshotOpener(s domain.SnapshotStore, err error) domain.SnapshotOpener {
	return func() (domain.SnapshotStore, error) {
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// LogEntry is one recorded MockLogger call.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log calls for assertions.
type MockLogger struct {
	Entries []LogEntry
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

// Debug records a debug-level entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Info records an info-level entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("INFO", taskID, category, msg) }

// Warn records a warning-level entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error-level entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("ERROR", taskID, category, msg) }

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// MockSchemaValidator is a test double for domain.SchemaValidator.
type MockSchemaValidator struct {
	Issues      []domain.Inconsistency
	Err         error
	ValidatedOn []byte
}

// Ensure MockSchemaValidator implements domain.SchemaValidator interface.
var _ domain.SchemaValidator = (*MockSchemaValidator)(nil)

// Validate records the raw document and returns the configured findings.
func (m *MockSchemaValidator) Validate(raw []byte) ([]domain.Inconsistency, error) {
	m.ValidatedOn = raw
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Issues, nil
}
