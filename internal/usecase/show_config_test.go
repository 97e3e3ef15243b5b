package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskq/internal/domain"
)

// mockConfigManager is a test double for domain.ConfigManager.
type mockConfigManager struct {
	storeInfo     domain.ConfigInfo
	globalInfo    domain.ConfigInfo
	initStoreErr  error
	initGlobalErr error
	storedInit    bool
	globalInit    bool
}

func (m *mockConfigManager) GetStoreConfigInfo() domain.ConfigInfo  { return m.storeInfo }
func (m *mockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.globalInfo }

func (m *mockConfigManager) InitStoreConfig() error {
	if m.initStoreErr != nil {
		return m.initStoreErr
	}
	m.storedInit = true
	return nil
}

func (m *mockConfigManager) InitGlobalConfig() error {
	if m.initGlobalErr != nil {
		return m.initGlobalErr
	}
	m.globalInit = true
	return nil
}

func TestShowConfig_Execute_Success(t *testing.T) {
	// Setup
	loader := newMockConfigLoader()
	manager := &mockConfigManager{
		storeInfo:  domain.ConfigInfo{Path: "/work/.taskq/config.toml", Exists: true, Content: "claimant = \"worker-1\"\n"},
		globalInfo: domain.ConfigInfo{Path: "/home/u/.config/taskq/config.toml", Exists: false},
	}
	uc := NewShowConfig(loader, manager)

	// Execute
	out, err := uc.Execute(context.Background(), ShowConfigInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "worker-1", out.Config.Claimant)
	assert.Equal(t, domain.DefaultLeaseSeconds, out.Config.LeaseSeconds)
	assert.True(t, out.StoreConfig.Exists)
	assert.False(t, out.GlobalConfig.Exists)
	assert.Equal(t, "/work/.taskq/config.toml", out.StoreConfig.Path)
}

func TestShowConfig_Execute_LoadError(t *testing.T) {
	// Setup
	loader := &mockConfigLoader{loadErr: assert.AnError}
	uc := NewShowConfig(loader, &mockConfigManager{})

	// Execute
	_, err := uc.Execute(context.Background(), ShowConfigInput{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
