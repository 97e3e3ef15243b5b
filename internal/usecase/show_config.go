package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskq/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Config       domain.Config     // Effective merged configuration
	StoreConfig  domain.ConfigInfo // Store config file info
	GlobalConfig domain.ConfigInfo // Global config file info
}

// ShowConfig displays the effective configuration and its sources.
type ShowConfig struct {
	loader  domain.ConfigLoader
	manager domain.ConfigManager
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(loader domain.ConfigLoader, manager domain.ConfigManager) *ShowConfig {
	return &ShowConfig{
		loader:  loader,
		manager: manager,
	}
}

// Execute loads the merged configuration and the source file details.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &ShowConfigOutput{
		Config:       cfg,
		StoreConfig:  uc.manager.GetStoreConfigInfo(),
		GlobalConfig: uc.manager.GetGlobalConfigInfo(),
	}, nil
}
