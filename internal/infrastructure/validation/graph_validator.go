// Package validation checks graph documents against the embedded JSON Schema.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var graphSchema []byte

const schemaURL = "graph.schema.json"

// GraphValidator validates documents against the graph schema.
// The schema is compiled once and shared by all validations.
type GraphValidator struct {
	schema  *jsonschema.Schema
	err     error
	compile sync.Once
}

// NewGraphValidator creates a new graph validator.
func NewGraphValidator() *GraphValidator {
	return &GraphValidator{}
}

// Schema returns the raw JSON Schema used for validation.
func Schema() []byte {
	return graphSchema
}

// Validate checks the document against the schema and returns every
// violation found.
func (v *GraphValidator) Validate(doc *entities.Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}

	schema, err := v.compiled()
	if err != nil {
		return err
	}

	instance, err := toInstance(doc)
	if err != nil {
		return err
	}

	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

func (v *GraphValidator) compiled() (*jsonschema.Schema, error) {
	v.compile.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(schemaURL, bytes.NewReader(graphSchema)); err != nil {
			v.err = fmt.Errorf("failed to add graph schema resource: %w", err)
			return
		}

		v.schema, v.err = compiler.Compile(schemaURL)
		if v.err != nil {
			v.err = fmt.Errorf("failed to compile graph schema: %w", v.err)
		}
	})
	return v.schema, v.err
}

// toInstance converts the document into the generic JSON form the schema
// library validates.
func toInstance(doc *entities.Document) (interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var instance interface{}
	if err := decoder.Decode(&instance); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return instance, nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		// Leaf causes carry the useful detail
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}

		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("graph schema validation failed")
	}

	return fmt.Errorf("graph schema validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
