package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/reglet-dev/rollup/internal/domain/entities"
)

// Variable pattern: {{ .vars.key }}
var varPattern = regexp.MustCompile(`\{\{\s*\.vars\.([a-zA-Z0-9_.]+)\s*\}\}`)

// VariableSubstitutor replaces {{ .vars.key }} references in a document.
type VariableSubstitutor struct{}

// NewVariableSubstitutor creates a new variable substitutor.
func NewVariableSubstitutor() *VariableSubstitutor {
	return &VariableSubstitutor{}
}

// Substitute replaces {{ .vars.key }} patterns in the graph description and
// in every budget's description and expectations, using the document's vars.
// Supports nested paths like {{ .vars.caps.monthly }}.
// Returns an error if a referenced variable is not found.
// Modifies the document in place.
func (s *VariableSubstitutor) Substitute(doc *entities.Document) error {
	var err error
	doc.Metadata.Description, err = s.substituteInString(doc.Metadata.Description, doc.Vars)
	if err != nil {
		return fmt.Errorf("graph description: %w", err)
	}

	for i := range doc.Budgets {
		b := &doc.Budgets[i]

		b.Description, err = s.substituteInString(b.Description, doc.Vars)
		if err != nil {
			return fmt.Errorf("budget %s: %w", b.Name, err)
		}

		for j, expect := range b.Expect {
			b.Expect[j], err = s.substituteInString(expect, doc.Vars)
			if err != nil {
				return fmt.Errorf("budget %s, expectation %d: %w", b.Name, j, err)
			}
		}
	}

	return nil
}

// substituteInString replaces patterns with values.
func (s *VariableSubstitutor) substituteInString(str string, vars map[string]interface{}) (string, error) {
	var lastErr error

	result := varPattern.ReplaceAllStringFunc(str, func(match string) string {
		submatches := varPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			lastErr = fmt.Errorf("invalid variable pattern: %s", match)
			return match
		}

		value, err := lookupVar(vars, submatches[1])
		if err != nil {
			lastErr = err
			return match
		}

		return fmt.Sprintf("%v", value)
	})

	if lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

// lookupVar looks up a variable value by path (e.g., "caps.monthly").
// Supports nested paths using dot notation.
func lookupVar(vars map[string]interface{}, path string) (interface{}, error) {
	parts := strings.Split(path, ".")
	current := interface{}(vars)

	for i, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("variable path %s: cannot access %s (not a map)", path, strings.Join(parts[:i+1], "."))
		}

		value, exists := m[part]
		if !exists {
			return nil, fmt.Errorf("variable not found: %s", path)
		}

		current = value
	}

	switch v := current.(type) {
	case string, int, int64, uint64, float64, bool:
		return v, nil
	case map[string]interface{}:
		return nil, fmt.Errorf("variable %s is a map, not a value", path)
	default:
		val := reflect.ValueOf(v)
		switch val.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return val.Int(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return val.Uint(), nil
		case reflect.Float32, reflect.Float64:
			return val.Float(), nil
		}
		return v, nil
	}
}
