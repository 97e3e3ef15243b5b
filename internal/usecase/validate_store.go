package usecase

import (
	"context"

	"github.com/runoshun/taskq/internal/domain"
)

// ValidateStoreInput contains the parameters for validating the store.
type ValidateStoreInput struct{}

// ValidateStoreOutput contains the validation findings.
type ValidateStoreOutput struct {
	Inconsistencies []domain.Inconsistency // Empty when the store is consistent
}

// ValidateStore is the use case for the full-store consistency check.
type ValidateStore struct {
	store  domain.TaskStore
	schema domain.SchemaValidator
}

// NewValidateStore creates a new ValidateStore use case.
func NewValidateStore(store domain.TaskStore, schema domain.SchemaValidator) *ValidateStore {
	return &ValidateStore{
		store:  store,
		schema: schema,
	}
}

// Execute runs the schema check over the raw document, then the
// semantic scan over the decoded index, and combines the findings. An
// index that cannot be decoded at all is an error, not a finding.
func (uc *ValidateStore) Execute(_ context.Context, _ ValidateStoreInput) (*ValidateStoreOutput, error) {
	ix, raw, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	issues, err := uc.schema.Validate(raw)
	if err != nil {
		return nil, err
	}
	issues = append(issues, domain.ValidateIndex(ix)...)

	return &ValidateStoreOutput{Inconsistencies: issues}, nil
}
