package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const ruleWidth = 80

// TableFormatter formats runs as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", ruleWidth), colorGray)
}

// Format writes the run as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(run *report.Run) error {
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Graph: %s (v%s)\n", f.colorize(run.GraphName, colorBold), run.GraphVersion)
	fmt.Fprintf(f.writer, "Evaluated: %s\n", run.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "Value: %s\n", run.Value)
	fmt.Fprintln(f.writer)

	if len(run.Reports) == 0 {
		fmt.Fprintln(f.writer, "No reports produced.")
		return nil
	}

	for _, rep := range run.Reports {
		f.formatReport(rep)
	}

	if len(run.Budgets) > 0 {
		f.formatBudgets(run.Budgets)
	}

	f.formatSummary(run)
	return nil
}

// formatReport formats a single visitor report.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatReport(rep report.Report) {
	title := fmt.Sprintf("Report: %s (%s)", rep.Visitor, rep.Combinator)
	fmt.Fprintln(f.writer, f.colorize(title, colorBold))
	fmt.Fprintln(f.writer, f.rule())

	if len(rep.Lines) == 0 {
		fmt.Fprintln(f.writer, "  No leaves.")
	}

	pathWidth := columnWidth(rep)
	for _, line := range rep.Lines {
		fmt.Fprintf(f.writer, "  %-*s  %-20s %12s\n",
			pathWidth, line.Path,
			f.colorize(string(line.Kind), colorCyan),
			line.Amount)
	}

	if len(rep.Groups) > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, "  Subtotals:")
		for _, g := range rep.Groups {
			indent := strings.Repeat("  ", g.Depth)
			fmt.Fprintf(f.writer, "    %s%s: %s (%d children)\n", indent, g.Name, g.Amount, g.Children)
		}
	}

	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "  %s %s\n", f.colorize("Total:", colorBold), rep.Total)
	fmt.Fprintln(f.writer)
}

// columnWidth returns the width of the widest leaf path in the report.
func columnWidth(rep report.Report) int {
	width := len("path")
	for _, line := range rep.Lines {
		if len(line.Path) > width {
			width = len(line.Path)
		}
	}
	return width
}

// formatBudgets formats every budget outcome.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatBudgets(budgets []report.BudgetResult) {
	fmt.Fprintln(f.writer, f.colorize("Budgets:", colorBold))
	fmt.Fprintln(f.writer, f.rule())

	for _, b := range budgets {
		symbol, color := f.getStatusInfo(b.Status)
		fmt.Fprintf(f.writer, "%s %s", f.colorize(symbol, color), f.colorize(b.Name, color))
		if b.Description != "" {
			fmt.Fprintf(f.writer, ": %s", b.Description)
		}
		fmt.Fprintln(f.writer)

		statusText := f.colorize(strings.ToUpper(string(b.Status)), color)
		fmt.Fprintf(f.writer, "  Status: %s\n", statusText)
		if b.Message != "" {
			fmt.Fprintf(f.writer, "  Message: %s\n", b.Message)
		}
		f.formatFailedExpectations(b)
		fmt.Fprintln(f.writer)
	}
}

// formatFailedExpectations lists the expectations that did not pass.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatFailedExpectations(b report.BudgetResult) {
	var failed []report.ExpectationResult
	for _, exp := range b.Expectations {
		if !exp.Passed {
			failed = append(failed, exp)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(f.writer, "  %s:\n", f.colorize("Failed Expectations", colorRed))
	for _, exp := range failed {
		fmt.Fprintf(f.writer, "    - %s\n", exp.Expression)
		if exp.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", f.colorize(exp.Message, colorYellow))
		}
	}
}

// formatSummary formats the summary statistics.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(run *report.Run) {
	summary := run.Summary
	symbol, color := f.getStatusInfo(run.Status)

	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "Status:   %s %s\n", f.colorize(symbol, color), run.Status)
	fmt.Fprintf(f.writer, "Reports:  %d (%d lines)\n", summary.TotalReports, summary.TotalLines)
	fmt.Fprintf(f.writer, "Budgets:  %d total\n", summary.TotalBudgets)
	fmt.Fprintf(f.writer, "  %s Passed:   %d\n", f.colorize("✓", colorGreen), summary.PassedBudgets)
	fmt.Fprintf(f.writer, "  %s Failed:   %d\n", f.colorize("✗", colorRed), summary.FailedBudgets)
	fmt.Fprintf(f.writer, "  %s Errors:   %d\n", f.colorize("⚠", colorYellow), summary.ErrorBudgets)
	fmt.Fprintln(f.writer, f.rule())
}

// getStatusInfo returns a symbol and color for the given status.
func (f *TableFormatter) getStatusInfo(status values.Status) (string, string) {
	switch status {
	case values.StatusPass:
		return "✓", colorGreen
	case values.StatusFail:
		return "✗", colorRed
	case values.StatusError:
		return "⚠", colorYellow
	case values.StatusSkipped:
		return "⊘", colorGray
	default:
		return "?", colorReset
	}
}
