package domain

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// Directory and file names for the task store.
const (
	TasksDirName   = "tasks"       // Directory under the queue root holding all state
	IndexFileName  = "index.json"  // Task index document
	LockFileName   = "index.lock"  // Advisory lock file guarding the index
	ItemsDirName   = "items"       // Per-task markdown bodies
	ConfigFileName = "config.toml" // Config file name
	LogFileName    = "queue.log"   // Operation log
)

// StoreDir returns the task store directory for a queue root.
func StoreDir(root string) string {
	return filepath.Join(root, TasksDirName)
}

// IndexPath returns the index document path.
func IndexPath(root string) string {
	return filepath.Join(StoreDir(root), IndexFileName)
}

// LockPath returns the lock file path.
func LockPath(root string) string {
	return filepath.Join(StoreDir(root), LockFileName)
}

// ItemsDir returns the directory holding task bodies.
func ItemsDir(root string) string {
	return filepath.Join(StoreDir(root), ItemsDirName)
}

// StoreConfigPath returns the store-local config path.
func StoreConfigPath(root string) string {
	return filepath.Join(StoreDir(root), ConfigFileName)
}

// LogPath returns the queue log path.
func LogPath(root string) string {
	return filepath.Join(StoreDir(root), LogFileName)
}

// GlobalTaskqDir returns the global taskq directory path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalTaskqDir(configHome string) string {
	return filepath.Join(configHome, "taskq")
}

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalTaskqDir(configHome), ConfigFileName)
}

// Default configuration values.
const (
	DefaultLeaseSeconds       = 4 * 60 * 60
	DefaultLockTimeoutSeconds = 10
	DefaultNamespace          = "taskq"
	DefaultLogLevel           = "info"
)

// Config represents the application configuration.
// Scalar fields come before the table sections so the struct encodes
// to valid TOML as-is.
type Config struct {
	Claimant           string         `toml:"claimant"`             // Claimant identity recorded on claim
	Warnings           []string       `toml:"-"`                    // Unknown-key warnings collected during load
	LeaseSeconds       int            `toml:"lease_seconds"`        // Lease duration granted on claim
	LockTimeoutSeconds int            `toml:"lock_timeout_seconds"` // How long to wait for the index lock
	Snapshot           SnapshotConfig `toml:"snapshot"`             // [snapshot] settings
	Log                LogConfig      `toml:"log"`                  // [log] settings
}

// SnapshotConfig holds snapshot settings from [snapshot] section.
type SnapshotConfig struct {
	Namespace string `toml:"namespace,omitempty"` // Git ref namespace for snapshots
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// ConfigInfo describes one config file location.
type ConfigInfo struct {
	Path    string // Absolute path, empty if the location is unavailable
	Content string // File content when it exists
	Exists  bool
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() Config {
	return Config{
		LeaseSeconds:       DefaultLeaseSeconds,
		LockTimeoutSeconds: DefaultLockTimeoutSeconds,
		Snapshot:           SnapshotConfig{Namespace: DefaultNamespace},
		Log:                LogConfig{Level: DefaultLogLevel},
	}
}

// EffectiveClaimant returns the configured claimant, falling back to an
// identity derived from the current process.
func (c Config) EffectiveClaimant() string {
	if c.Claimant != "" {
		return c.Claimant
	}
	return DefaultClaimant()
}

// DefaultClaimant builds a user@host:pid identity for the current
// process. It never fails; unknown parts degrade to placeholders.
func DefaultClaimant() string {
	username := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	} else if env := os.Getenv("USER"); env != "" {
		username = env
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}

	return fmt.Sprintf("%s@%s:%d", username, host, os.Getpid())
}
