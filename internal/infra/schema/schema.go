// Package schema validates raw index documents against the embedded
// JSON Schema. It catches field-shape problems that the semantic scan
// in domain.ValidateIndex does not look at, such as malformed
// timestamps or an empty title.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/runoshun/taskq/internal/domain"
)

//go:embed index.schema.json
var indexSchemaJSON string

var indexSchema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("index.schema.json", strings.NewReader(indexSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add index schema resource: %v", err))
	}
	schema, err := compiler.Compile("index.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile index schema: %v", err))
	}
	return schema
}

// Validator implements domain.SchemaValidator using the embedded
// schema.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate implements domain.SchemaValidator.
func (*Validator) Validate(raw []byte) ([]domain.Inconsistency, error) {
	return Validate(raw)
}

// Ensure Validator implements SchemaValidator.
var _ domain.SchemaValidator = (*Validator)(nil)

// Validate checks a raw index document against the schema and returns
// one inconsistency per leaf violation. Documents that are not JSON at
// all fail with domain.ErrCorruptStore.
func Validate(raw []byte) ([]domain.Inconsistency, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStore, err)
	}

	err := indexSchema.Validate(doc)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []domain.Inconsistency{{Message: err.Error()}}, nil
	}

	var issues []domain.Inconsistency
	collectLeafErrors(ve, &issues)
	return issues, nil
}

// collectLeafErrors walks the cause tree and keeps only the leaves,
// which carry the specific violations.
func collectLeafErrors(err *jsonschema.ValidationError, issues *[]domain.Inconsistency) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := pointerToPath(err.InstanceLocation)
		if path == "" {
			path = "document"
		}
		*issues = append(*issues, domain.Inconsistency{
			Message: fmt.Sprintf("%s: %s", path, err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectLeafErrors(cause, issues)
	}
}

// pointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation
// path, e.g. "/tasks/0/title" becomes "tasks[0].title".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
