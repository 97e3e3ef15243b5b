// Package usecase contains the application use cases.
package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// InitStoreInput contains the parameters for initializing a task store.
type InitStoreInput struct{}

// InitStoreOutput contains the result of initializing a task store.
type InitStoreOutput struct{}

// InitStore is the use case for creating a new task store.
type InitStore struct {
	store  domain.StoreInitializer
	logger domain.Logger
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(store domain.StoreInitializer, logger domain.Logger) *InitStore {
	return &InitStore{
		store:  store,
		logger: logger,
	}
}

// Execute creates the store layout with an empty index.
func (uc *InitStore) Execute(_ context.Context, _ InitStoreInput) (*InitStoreOutput, error) {
	if err := uc.store.Initialize(); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info("", "store", "initialized")
	}

	return &InitStoreOutput{}, nil
}
