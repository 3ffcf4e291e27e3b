package report

import (
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run_Finalize(t *testing.T) {
	run := NewRun("workstation", "1.0.0")
	require.False(t, run.ID.IsZero())

	run.AddReport(Report{
		Visitor: "monthly",
		Lines:   []Line{{Name: "a", Amount: 1}, {Name: "b", Amount: 2}},
		Total:   3,
	})
	run.AddReport(Report{
		Visitor: "yearly",
		Lines:   []Line{{Name: "a", Amount: 12}},
		Total:   12,
	})
	run.AddBudgetResult(BudgetResult{Name: "p", Status: values.StatusPass})
	run.AddBudgetResult(BudgetResult{Name: "f", Status: values.StatusFail})
	run.AddBudgetResult(BudgetResult{Name: "e", Status: values.StatusError})
	run.Finalize()

	assert.False(t, run.EndTime.Before(run.StartTime))
	assert.Equal(t, Summary{
		TotalReports:  2,
		TotalLines:    3,
		TotalBudgets:  3,
		PassedBudgets: 1,
		FailedBudgets: 1,
		ErrorBudgets:  1,
	}, run.Summary)

	assert.Equal(t, map[string]values.Amount{"monthly": 3, "yearly": 12}, run.Totals())
	assert.Equal(t, []values.Status{values.StatusPass, values.StatusFail, values.StatusError}, run.BudgetStatuses())
}

func Test_Run_GetReport(t *testing.T) {
	run := NewRun("g", "1.0.0")
	run.AddReport(Report{Visitor: "monthly", Total: 5})

	rep := run.GetReport("monthly")
	require.NotNil(t, rep)
	assert.Equal(t, values.Amount(5), rep.Total)
	assert.Nil(t, run.GetReport("yearly"))
}
