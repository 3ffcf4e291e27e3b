package services

import (
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DocumentMerger_MergeBudgets_OverlayWins(t *testing.T) {
	t.Parallel()
	merger := NewDocumentMerger()

	base := []entities.BudgetSpec{
		{Name: "monthly-cap", Expect: []string{"monthly <= 100"}},
		{Name: "yearly-cap", Expect: []string{"yearly <= 1000"}},
	}
	overlay := []entities.BudgetSpec{
		{Name: "yearly-cap", Expect: []string{"yearly <= 5000"}},
		{Name: "value-cap", Expect: []string{"value <= 9000"}},
	}

	merged := merger.MergeBudgets(base, overlay)
	require.Len(t, merged, 3)
	assert.Equal(t, "monthly-cap", merged[0].Name)
	assert.Equal(t, "yearly-cap", merged[1].Name)
	assert.Equal(t, []string{"yearly <= 5000"}, merged[1].Expect)
	assert.Equal(t, "value-cap", merged[2].Name)

	// Result does not alias the inputs.
	merged[0].Expect[0] = "false"
	assert.Equal(t, "monthly <= 100", base[0].Expect[0])
}

func Test_DocumentMerger_MergeAllBudgets(t *testing.T) {
	t.Parallel()
	merger := NewDocumentMerger()

	assert.Nil(t, merger.MergeAllBudgets())
	assert.Nil(t, merger.MergeAllBudgets(nil, nil))

	merged := merger.MergeAllBudgets(
		[]entities.BudgetSpec{{Name: "a", Expect: []string{"true"}}},
		[]entities.BudgetSpec{{Name: "b", Expect: []string{"true"}}},
		[]entities.BudgetSpec{{Name: "a", Expect: []string{"false"}}},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].Name)
	assert.Equal(t, []string{"false"}, merged[0].Expect)
	assert.Equal(t, "b", merged[1].Name)
}

func Test_DocumentMerger_MergeVars(t *testing.T) {
	t.Parallel()
	merger := NewDocumentMerger()

	assert.Nil(t, merger.MergeVars(nil, nil))

	merged := merger.MergeVars(
		map[string]interface{}{"cap": 100, "team": "infra"},
		nil,
		map[string]interface{}{"cap": 200},
	)
	assert.Equal(t, map[string]interface{}{"cap": 200, "team": "infra"}, merged)
}
