package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/taskq/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// configTemplate is written by the init operations. Every key is
// commented out so the defaults stay authoritative until edited.
const configTemplate = `# taskq configuration.
#
# Identity recorded on claimed tasks. Defaults to user@host:pid.
# claimant = "alice@laptop"
#
# Lease duration granted by 'taskq start', in seconds.
# lease_seconds = 14400
#
# How long commands wait for the index lock, in seconds.
# lock_timeout_seconds = 10

# [snapshot]
# namespace = "taskq"

# [log]
# level = "info"
`

// Manager manages configuration files.
type Manager struct {
	storeConfigPath string // Path to <root>/tasks/config.toml
	globalConfDir   string // Path to global config directory
}

// NewManager creates a Manager for the queue rooted at rootDir.
func NewManager(rootDir string) *Manager {
	return &Manager{
		storeConfigPath: domain.StoreConfigPath(rootDir),
		globalConfDir:   defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a Manager with a custom global config
// directory. This is useful for testing.
func NewManagerWithGlobalDir(rootDir, globalConfDir string) *Manager {
	return &Manager{
		storeConfigPath: domain.StoreConfigPath(rootDir),
		globalConfDir:   globalConfDir,
	}
}

// GetStoreConfigInfo returns information about the store config file.
func (m *Manager) GetStoreConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(m.storeConfigPath)
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitStoreConfig creates the store config file from the template.
func (m *Manager) InitStoreConfig() error {
	return m.initConfig(m.storeConfigPath)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig() error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}
	return m.initConfig(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// initConfig creates a config file with the default template.
func (m *Manager) initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}
