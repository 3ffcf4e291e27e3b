package validation

import (
	"encoding/json"
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func validDocument() *entities.Document {
	return &entities.Document{
		Metadata: entities.GraphMetadata{Name: "pc", Version: "1.0.0"},
		Root: entities.NodeSpec{
			Name: "PC",
			Children: []entities.NodeSpec{
				{
					Name: "Memory",
					Children: []entities.NodeSpec{
						{Name: "ROM", Kind: "equipment", Price: i64(100)},
						{Name: "RAM", Kind: "equipment", Price: i64(75)},
					},
				},
				{Name: "Support", Kind: "support", CostPerMonth: i64(500)},
			},
		},
		Vars: map[string]interface{}{"cap": 1500},
		Budgets: []entities.BudgetSpec{
			{Name: "total-cap", Expect: []string{"value <= 1500"}},
		},
	}
}

func Test_GraphValidator_Valid(t *testing.T) {
	err := NewGraphValidator().Validate(validDocument())
	assert.NoError(t, err)
}

func Test_GraphValidator_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(doc *entities.Document)
		wantErr string
	}{
		{
			name:    "missing graph name",
			mutate:  func(doc *entities.Document) { doc.Metadata.Name = "" },
			wantErr: "/graph/name",
		},
		{
			name:    "negative price",
			mutate:  func(doc *entities.Document) { doc.Root.Children[0].Children[0].Price = i64(-1) },
			wantErr: "/root/children/0/children/0/price",
		},
		{
			name:    "budget without expectations",
			mutate:  func(doc *entities.Document) { doc.Budgets[0].Expect = []string{} },
			wantErr: "/budgets/0/expect",
		},
		{
			name:    "budget name with spaces",
			mutate:  func(doc *entities.Document) { doc.Budgets[0].Name = "total cap" },
			wantErr: "/budgets/0/name",
		},
		{
			name:    "empty expectation",
			mutate:  func(doc *entities.Document) { doc.Budgets[0].Expect = []string{""} },
			wantErr: "/budgets/0/expect/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			err := NewGraphValidator().Validate(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "graph schema validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func Test_GraphValidator_ReportsAllViolations(t *testing.T) {
	doc := validDocument()
	doc.Metadata.Version = ""
	doc.Root.Children[1].CostPerMonth = i64(-5)

	err := NewGraphValidator().Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/graph/version")
	assert.Contains(t, err.Error(), "/root/children/1/cost_per_month")
}

func Test_GraphValidator_NilDocument(t *testing.T) {
	err := NewGraphValidator().Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")
}

func Test_GraphValidator_Reusable(t *testing.T) {
	v := NewGraphValidator()
	for i := 0; i < 3; i++ {
		require.NoError(t, v.Validate(validDocument()))
	}

	schema, err := v.compiled()
	require.NoError(t, err)
	again, err := v.compiled()
	require.NoError(t, err)
	assert.Same(t, schema, again)
}

func Test_Schema_IsValidJSON(t *testing.T) {
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(Schema(), &parsed))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", parsed["$schema"])
}
