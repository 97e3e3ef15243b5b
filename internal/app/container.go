// Package app provides the dependency injection container for the application.
package app

import (
	"time"

	"github.com/runoshun/taskq/internal/domain"
	"github.com/runoshun/taskq/internal/infra/config"
	"github.com/runoshun/taskq/internal/infra/logging"
	"github.com/runoshun/taskq/internal/infra/schema"
	"github.com/runoshun/taskq/internal/infra/snapstore"
	"github.com/runoshun/taskq/internal/infra/taskstore"
	"github.com/runoshun/taskq/internal/usecase"
)

// Config holds the resolved paths of the queue.
type Config struct {
	Root      string // Queue root directory
	StoreDir  string // Path to <root>/tasks
	IndexPath string // Path to the index document
	LogPath   string // Path to the queue log
}

// newConfig resolves the queue paths for a root directory.
func newConfig(root string) Config {
	return Config{
		Root:      root,
		StoreDir:  domain.StoreDir(root),
		IndexPath: domain.IndexPath(root),
		LogPath:   domain.LogPath(root),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.TaskStore
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger
	Snapshots        domain.SnapshotOpener
	Schema           domain.SchemaValidator

	// Configuration
	Config Config
}

// New creates an unbound Container. The command layer resolves the
// queue root from its flags and calls Bind before any use case runs.
func New() *Container {
	return &Container{Clock: domain.RealClock{}}
}

// Bound reports whether Bind has run.
func (c *Container) Bound() bool {
	return c.Store != nil
}

// Bind wires the container to the queue rooted at root. Binding never
// touches the store; commands that need a missing store fail when they
// execute, not here.
func (c *Container) Bind(root string) {
	cfg := newConfig(root)

	configLoader := config.NewLoader(root)
	appConfig, err := configLoader.Load()
	if err != nil {
		// A broken config file fails the commands that depend on it;
		// wiring falls back to defaults.
		appConfig = domain.NewDefaultConfig()
	}

	store := taskstore.New(root, time.Duration(appConfig.LockTimeoutSeconds)*time.Second)

	namespace := appConfig.Snapshot.Namespace
	snapshots := func() (domain.SnapshotStore, error) {
		return snapstore.Open(root, namespace)
	}

	c.Store = store
	c.StoreInitializer = store
	c.ConfigLoader = configLoader
	c.ConfigManager = config.NewManager(root)
	c.Logger = logging.New(cfg.LogPath, logging.ParseLevel(appConfig.Log.Level))
	c.Snapshots = snapshots
	c.Schema = schema.NewValidator()
	c.Config = cfg
}

// NewWithDeps creates a bound Container with custom dependencies for testing.
func NewWithDeps(cfg Config, store domain.TaskStore, storeInit domain.StoreInitializer, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Clock:            clock,
		Logger:           logger,
		Config:           cfg,
	}
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.Logger)
}

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Store, c.Clock, c.Logger)
}

// AddTasksFromFileUseCase returns a new AddTasksFromFile use case.
func (c *Container) AddTasksFromFileUseCase() *usecase.AddTasksFromFile {
	return usecase.NewAddTasksFromFile(c.Store, c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.Clock)
}

// ReadyTasksUseCase returns a new ReadyTasks use case.
func (c *Container) ReadyTasksUseCase() *usecase.ReadyTasks {
	return usecase.NewReadyTasks(c.Store, c.Clock)
}

// StartTaskUseCase returns a new StartTask use case.
func (c *Container) StartTaskUseCase() *usecase.StartTask {
	return usecase.NewStartTask(c.Store, c.ConfigLoader, c.Clock, c.Logger)
}

// ReleaseTaskUseCase returns a new ReleaseTask use case.
func (c *Container) ReleaseTaskUseCase() *usecase.ReleaseTask {
	return usecase.NewReleaseTask(c.Store, c.Clock, c.Logger)
}

// FinishTaskUseCase returns a new FinishTask use case.
func (c *Container) FinishTaskUseCase() *usecase.FinishTask {
	return usecase.NewFinishTask(c.Store, c.Clock, c.Logger)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Store, c.ConfigLoader, c.Clock, c.Logger)
}

// GetTaskUseCase returns a new GetTask use case.
func (c *Container) GetTaskUseCase() *usecase.GetTask {
	return usecase.NewGetTask(c.Store, c.Clock)
}

// ValidateStoreUseCase returns a new ValidateStore use case.
func (c *Container) ValidateStoreUseCase() *usecase.ValidateStore {
	return usecase.NewValidateStore(c.Store, c.Schema)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigLoader, c.ConfigManager)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// SaveSnapshotUseCase returns a new SaveSnapshot use case.
func (c *Container) SaveSnapshotUseCase() *usecase.SaveSnapshot {
	return usecase.NewSaveSnapshot(c.Store, c.Snapshots, c.Logger)
}

// ListSnapshotsUseCase returns a new ListSnapshots use case.
func (c *Container) ListSnapshotsUseCase() *usecase.ListSnapshots {
	return usecase.NewListSnapshots(c.Snapshots)
}

// RestoreSnapshotUseCase returns a new RestoreSnapshot use case.
func (c *Container) RestoreSnapshotUseCase() *usecase.RestoreSnapshot {
	return usecase.NewRestoreSnapshot(c.Store, c.Snapshots, c.Logger)
}
