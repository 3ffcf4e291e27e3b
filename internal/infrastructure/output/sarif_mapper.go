package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// Limit content size to keep SARIF files small
const maxContentSize = 512 * 1024

type sarifMapper struct {
	run       *report.Run
	graphPath string
	cwd       string
	content   string // graph file text, empty if unreadable
}

func newSARIFMapper(run *report.Run, graphPath string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	m := &sarifMapper{
		run:       run,
		graphPath: graphPath,
		cwd:       cwd,
	}
	m.content = m.readGraph()
	return m
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules converts budgets to SARIF rules.
func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, b := range m.run.Budgets {
		rule := sarif.NewReportingDescriptor().WithID(b.Name)
		rule.WithName(b.Name)

		desc := b.Description
		if desc == "" {
			desc = b.Name
		}
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &desc,
		})

		expressions := make([]string, 0, len(b.Expectations))
		for _, exp := range b.Expectations {
			expressions = append(expressions, exp.Expression)
		}
		full := strings.Join(expressions, " && ")
		if full == "" {
			full = desc
		}
		rule.WithFullDescription(&sarif.MultiformatMessageString{
			Text: &full,
		})

		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: "error",
		})

		props := sarif.NewPropertyBag()
		props.WithTags([]string{"budget"})
		rule.WithProperties(props)

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts budget outcomes to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, b := range m.run.Budgets {
		run.AddResult(m.mapBudgetResult(b))
	}
}

// mapBudgetResult converts a single BudgetResult to a SARIF Result.
func (m *sarifMapper) mapBudgetResult(b report.BudgetResult) *sarif.Result {
	result := sarif.NewRuleResult(b.Name)

	result.Level = m.mapStatusToLevel(b.Status)
	result.Kind = m.mapStatusToKind(b.Status)

	msg := b.Message
	if msg == "" {
		msg = m.generateDefaultMessage(b)
	}
	result.Message = sarif.NewTextMessage(msg)

	if loc := m.budgetLocation(b.Name); loc != nil {
		result.Locations = []*sarif.Location{loc}
	}

	props := sarif.NewPropertyBag()
	props.Add("expectations", b.Expectations)
	props.Add("status", string(b.Status))
	result.WithProperties(props)

	return result
}

// mapStatusToLevel converts a budget status to SARIF level.
func (m *sarifMapper) mapStatusToLevel(status values.Status) string {
	switch status {
	case values.StatusPass:
		return "note"
	case values.StatusFail, values.StatusError:
		return "error"
	case values.StatusSkipped:
		return "none"
	default:
		return "warning"
	}
}

// mapStatusToKind converts a budget status to SARIF kind.
func (m *sarifMapper) mapStatusToKind(status values.Status) string {
	switch status {
	case values.StatusPass:
		return "pass"
	case values.StatusFail, values.StatusError:
		return "fail"
	case values.StatusSkipped:
		return "notApplicable"
	default:
		return "fail"
	}
}

// budgetLocation points at the budget's definition in the graph file.
func (m *sarifMapper) budgetLocation(name string) *sarif.Location {
	if m.graphPath == "" {
		return nil
	}

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.graphPath)))

	if line := findBudgetLine(m.content, name); line > 0 {
		pLoc.WithRegion(sarif.NewRegion().WithStartLine(line))
	}

	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// findBudgetLine returns the 1-based line declaring the named budget, or 0.
func findBudgetLine(content, name string) int {
	if content == "" {
		return 0
	}
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		value, ok := strings.CutPrefix(trimmed, "name:")
		if !ok {
			continue
		}
		if strings.Trim(strings.TrimSpace(value), `"'`) == name {
			return i + 1
		}
	}
	return 0
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

func (m *sarifMapper) readGraph() string {
	if m.graphPath == "" {
		return ""
	}
	info, err := os.Stat(m.graphPath)
	if err != nil || info.IsDir() || info.Size() >= maxContentSize {
		return ""
	}
	//nolint:gosec // G304: graph path is the file the user asked to evaluate
	content, err := os.ReadFile(m.graphPath)
	if err != nil {
		return ""
	}
	return string(content)
}

// addArtifacts registers the graph file so viewers can show context.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	if m.graphPath == "" {
		return
	}

	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.graphPath)))

	if m.content != "" {
		artifact.WithContents(sarif.NewArtifactContent().WithText(m.content))
		artifact.WithLength(len(m.content))
	}

	run.AddArtifact(artifact)
}

// addInvocation adds evaluation metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	invocation.ExecutionSuccessful = ptrBool(m.run.Summary.ErrorBudgets == 0)

	startTime := m.run.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.run.EndTime.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if hostname, err := os.Hostname(); err == nil {
		invocation.Machine = &hostname
	}

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("graphName", m.run.GraphName)
	props.Add("graphVersion", m.run.GraphVersion)
	props.Add("runId", m.run.ID.String())
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds totals and summary statistics to run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	totals := make(map[string]int64, len(m.run.Reports))
	for _, rep := range m.run.Reports {
		totals[rep.Visitor] = rep.Total.Int64()
	}

	props := sarif.NewPropertyBag()
	props.Add("summary", m.run.Summary)
	props.Add("totals", totals)
	props.Add("value", m.run.Value.Int64())
	run.WithProperties(props)
}

// generateDefaultMessage creates a default message for budgets without one.
func (m *sarifMapper) generateDefaultMessage(b report.BudgetResult) string {
	switch b.Status {
	case values.StatusPass:
		return fmt.Sprintf("Budget %s met", b.Name)
	case values.StatusFail:
		return fmt.Sprintf("Budget %s exceeded", b.Name)
	case values.StatusError:
		return fmt.Sprintf("Budget %s could not be evaluated", b.Name)
	case values.StatusSkipped:
		return fmt.Sprintf("Budget %s was skipped", b.Name)
	default:
		return fmt.Sprintf("Budget %s completed with status %s", b.Name, b.Status)
	}
}

func ptrBool(b bool) *bool {
	return &b
}
