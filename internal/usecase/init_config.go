package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Global bool // If true, initialize the global config; otherwise the store config
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig generates a configuration file template.
type InitConfig struct {
	manager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(manager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		manager: manager,
	}
}

// Execute creates a configuration file with the default template.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	var info domain.ConfigInfo
	var err error

	if in.Global {
		info = uc.manager.GetGlobalConfigInfo()
		err = uc.manager.InitGlobalConfig()
	} else {
		info = uc.manager.GetStoreConfigInfo()
		err = uc.manager.InitStoreConfig()
	}
	if err != nil {
		return nil, err
	}

	return &InitConfigOutput{Path: info.Path}, nil
}
