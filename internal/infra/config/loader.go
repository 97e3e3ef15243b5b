// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskq/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	storeConfigPath string // Path to <root>/tasks/config.toml
	globalConfDir   string // Path to global config directory (e.g., ~/.config/taskq)
}

// NewLoader creates a Loader for the queue rooted at rootDir.
func NewLoader(rootDir string) *Loader {
	return &Loader{
		storeConfigPath: domain.StoreConfigPath(rootDir),
		globalConfDir:   defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(rootDir, globalConfDir string) *Loader {
	return &Loader{
		storeConfigPath: domain.StoreConfigPath(rootDir),
		globalConfDir:   globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalTaskqDir(configHome)
}

// Load returns the merged configuration (defaults + global + store).
// Store-local config takes precedence over global config.
func (l *Loader) Load() (domain.Config, error) {
	base := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		global, err := l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, err
		}
		if err == nil {
			base = mergeConfigs(base, global)
		}
	}

	store, err := l.loadFile(l.storeConfigPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, err
	}
	if err == nil {
		base = mergeConfigs(base, store)
	}

	return base, nil
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRaw(raw), nil
}

// convertRaw maps the raw TOML document onto a Config, collecting
// unknown-key warnings instead of failing.
func convertRaw(raw map[string]any) domain.Config {
	var res domain.Config
	var warnings []string

	for key, value := range raw {
		switch key {
		case "claimant":
			if s, ok := value.(string); ok {
				res.Claimant = s
			}
		case "lease_seconds":
			if n, ok := value.(int64); ok {
				res.LeaseSeconds = int(n)
			}
		case "lock_timeout_seconds":
			if n, ok := value.(int64); ok {
				res.LockTimeoutSeconds = int(n)
			}
		case "snapshot":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "namespace":
						if s, ok := v.(string); ok {
							res.Snapshot.Namespace = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [snapshot]: %s", k))
					}
				}
			}
		case "log":
			if m, ok := value.(map[string]any); ok {
				for k, v := range m {
					switch k {
					case "level":
						if s, ok := v.(string); ok {
							res.Log.Level = s
						}
					default:
						warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
					}
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", key))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// mergeConfigs merges two configs, with override taking precedence.
// Warnings from both sides are kept.
func mergeConfigs(base, override domain.Config) domain.Config {
	result := base
	result.Warnings = nil
	result.Warnings = append(result.Warnings, base.Warnings...)
	result.Warnings = append(result.Warnings, override.Warnings...)

	if override.Claimant != "" {
		result.Claimant = override.Claimant
	}
	if override.LeaseSeconds > 0 {
		result.LeaseSeconds = override.LeaseSeconds
	}
	if override.LockTimeoutSeconds > 0 {
		result.LockTimeoutSeconds = override.LockTimeoutSeconds
	}
	if override.Snapshot.Namespace != "" {
		result.Snapshot.Namespace = override.Snapshot.Namespace
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	return result
}
