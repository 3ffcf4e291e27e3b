package config

import (
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableSubstitutor_Substitute(t *testing.T) {
	doc := &entities.Document{
		Metadata: entities.GraphMetadata{
			Name:        "project",
			Version:     "1.0.0",
			Description: "Budget owner: {{ .vars.owner }}",
		},
		Vars: map[string]interface{}{
			"owner": "finance",
			"caps": map[string]interface{}{
				"monthly": 6000,
				"yearly":  uint64(20000),
			},
			"ratio":   1.5,
			"enabled": true,
		},
		Budgets: []entities.BudgetSpec{
			{
				Name:        "caps",
				Description: "Caps set by {{.vars.owner}}",
				Expect: []string{
					"monthly <= {{ .vars.caps.monthly }}",
					"yearly < {{ .vars.caps.yearly }}",
					"{{ .vars.enabled }} && value > 0",
				},
			},
		},
	}

	require.NoError(t, NewVariableSubstitutor().Substitute(doc))

	assert.Equal(t, "Budget owner: finance", doc.Metadata.Description)
	assert.Equal(t, "Caps set by finance", doc.Budgets[0].Description)
	assert.Equal(t, []string{
		"monthly <= 6000",
		"yearly < 20000",
		"true && value > 0",
	}, doc.Budgets[0].Expect)
}

func TestVariableSubstitutor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expect  string
		wantErr string
	}{
		{"missing", "value < {{ .vars.nope }}", "variable not found: nope"},
		{"map value", "value < {{ .vars.caps }}", "is a map, not a value"},
		{"through scalar", "value < {{ .vars.owner.name }}", "not a map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &entities.Document{
				Vars: map[string]interface{}{
					"owner": "finance",
					"caps":  map[string]interface{}{"monthly": 6000},
				},
				Budgets: []entities.BudgetSpec{{Name: "b", Expect: []string{tt.expect}}},
			}

			err := NewVariableSubstitutor().Substitute(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "budget b, expectation 0")
		})
	}
}

func TestVariableSubstitutor_NoVars(t *testing.T) {
	doc := &entities.Document{
		Budgets: []entities.BudgetSpec{{Name: "b", Expect: []string{"value <= 10"}}},
	}

	require.NoError(t, NewVariableSubstitutor().Substitute(doc))
	assert.Equal(t, []string{"value <= 10"}, doc.Budgets[0].Expect)
}

func TestLookupVar_NumericKinds(t *testing.T) {
	vars := map[string]interface{}{
		"i32": int32(7),
		"u8":  uint8(9),
		"f32": float32(2.5),
	}

	v, err := lookupVar(vars, "i32")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	v, err = lookupVar(vars, "u8")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)

	v, err = lookupVar(vars, "f32")
	require.NoError(t, err)
	assert.Equal(t, float64(2.5), v)
}
