// Package report provides domain models for evaluation results.
package report

import (
	"time"

	"github.com/reglet-dev/rollup/internal/domain/values"
)

// Run is the complete result of evaluating one graph: one report per
// visitor plus the outcome of every budget.
type Run struct {
	StartTime     time.Time      `json:"start_time" yaml:"start_time"`
	EndTime       time.Time      `json:"end_time" yaml:"end_time"`
	RollupVersion string         `json:"rollup_version,omitempty" yaml:"rollup_version,omitempty"`
	GraphName     string         `json:"graph_name" yaml:"graph_name"`
	GraphVersion  string         `json:"graph_version" yaml:"graph_version"`
	Status        values.Status  `json:"status" yaml:"status"`
	Reports       []Report       `json:"reports" yaml:"reports"`
	Budgets       []BudgetResult `json:"budgets,omitempty" yaml:"budgets,omitempty"`
	Summary       Summary        `json:"summary" yaml:"summary"`
	Value         values.Amount  `json:"value" yaml:"value"`
	Duration      time.Duration  `json:"duration" yaml:"duration"`
	ID            values.RunID   `json:"run_id" yaml:"run_id"`
}

// Report is the result of applying one visitor to the graph.
type Report struct {
	Visitor    string        `json:"visitor" yaml:"visitor"`
	Combinator string        `json:"combinator" yaml:"combinator"`
	Lines      []Line        `json:"lines" yaml:"lines"`
	Groups     []Group       `json:"groups,omitempty" yaml:"groups,omitempty"`
	Total      values.Amount `json:"total" yaml:"total"`
}

// Line is the visitor result for a single leaf.
type Line struct {
	Path   string        `json:"path" yaml:"path"`
	Name   string        `json:"name" yaml:"name"`
	Kind   values.Kind   `json:"kind" yaml:"kind"`
	Amount values.Amount `json:"amount" yaml:"amount"`
	Index  int           `json:"index" yaml:"index"`
}

// Group is the folded subtotal of a composite.
type Group struct {
	Path     string        `json:"path" yaml:"path"`
	Name     string        `json:"name" yaml:"name"`
	Amount   values.Amount `json:"amount" yaml:"amount"`
	Children int           `json:"children" yaml:"children"`
	Depth    int           `json:"depth" yaml:"depth"`
}

// BudgetResult is the outcome of one budget.
type BudgetResult struct {
	Name         string              `json:"name" yaml:"name"`
	Description  string              `json:"description,omitempty" yaml:"description,omitempty"`
	Status       values.Status       `json:"status" yaml:"status"`
	Message      string              `json:"message,omitempty" yaml:"message,omitempty"`
	Expectations []ExpectationResult `json:"expectations,omitempty" yaml:"expectations,omitempty"`
}

// ExpectationResult represents the result of evaluating a single expectation expression.
type ExpectationResult struct {
	Expression string `json:"expression" yaml:"expression"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Passed     bool   `json:"passed" yaml:"passed"`
}

// Summary provides aggregate statistics about the run.
type Summary struct {
	TotalReports  int `json:"total_reports" yaml:"total_reports"`
	TotalLines    int `json:"total_lines" yaml:"total_lines"`
	TotalBudgets  int `json:"total_budgets" yaml:"total_budgets"`
	PassedBudgets int `json:"passed_budgets" yaml:"passed_budgets"`
	FailedBudgets int `json:"failed_budgets" yaml:"failed_budgets"`
	ErrorBudgets  int `json:"error_budgets" yaml:"error_budgets"`
}

// NewRun creates a new run result.
func NewRun(graphName, graphVersion string) *Run {
	return NewRunWithID(values.NewRunID(), graphName, graphVersion)
}

// NewRunWithID creates a new run result with a specific ID.
func NewRunWithID(id values.RunID, graphName, graphVersion string) *Run {
	return &Run{
		ID:           id,
		GraphName:    graphName,
		GraphVersion: graphVersion,
		StartTime:    time.Now(),
		Reports:      make([]Report, 0),
	}
}

// AddReport appends a visitor report.
func (r *Run) AddReport(rep Report) {
	r.Reports = append(r.Reports, rep)
}

// AddBudgetResult appends a budget outcome.
func (r *Run) AddBudgetResult(b BudgetResult) {
	r.Budgets = append(r.Budgets, b)
}

// GetReport returns the report produced by the named visitor, or nil.
func (r *Run) GetReport(visitor string) *Report {
	for i := range r.Reports {
		if r.Reports[i].Visitor == visitor {
			return &r.Reports[i]
		}
	}
	return nil
}

// Totals maps each visitor name to its report total.
func (r *Run) Totals() map[string]values.Amount {
	totals := make(map[string]values.Amount, len(r.Reports))
	for _, rep := range r.Reports {
		totals[rep.Visitor] = rep.Total
	}
	return totals
}

// Finalize completes the run and calculates the summary.
func (r *Run) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.calculateSummary()
}

// calculateSummary computes summary statistics from reports and budgets.
func (r *Run) calculateSummary() {
	r.Summary = Summary{
		TotalReports: len(r.Reports),
		TotalBudgets: len(r.Budgets),
	}

	for _, rep := range r.Reports {
		r.Summary.TotalLines += len(rep.Lines)
	}

	for _, b := range r.Budgets {
		switch b.Status {
		case values.StatusPass:
			r.Summary.PassedBudgets++
		case values.StatusFail:
			r.Summary.FailedBudgets++
		case values.StatusError:
			r.Summary.ErrorBudgets++
		}
	}
}

// BudgetStatuses returns the status of every budget in declaration order.
func (r *Run) BudgetStatuses() []values.Status {
	statuses := make([]values.Status, len(r.Budgets))
	for i, b := range r.Budgets {
		statuses[i] = b.Status
	}
	return statuses
}
