package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/values"
)

// BudgetEvaluator checks budget expectations against the totals of a run.
// It caches compiled expressions to avoid redundant compilation overhead.
type BudgetEvaluator struct {
	programCache map[string]*vm.Program
	cacheMu      sync.RWMutex
}

// NewBudgetEvaluator creates a new budget evaluator with an initialized cache.
func NewBudgetEvaluator() *BudgetEvaluator {
	return &BudgetEvaluator{
		programCache: make(map[string]*vm.Program),
	}
}

// BudgetEnv builds the expression environment for a run: each visitor total
// under the visitor name, the intrinsic graph value as "value", the number
// of leaves as "lines", and all totals again under "totals".
func BudgetEnv(run *report.Run) map[string]interface{} {
	totals := make(map[string]interface{}, len(run.Reports))
	env := map[string]interface{}{
		"value":  run.Value.Int64(),
		"lines":  0,
		"totals": totals,
	}
	for _, rep := range run.Reports {
		totals[rep.Visitor] = rep.Total.Int64()
		if _, reserved := env[rep.Visitor]; !reserved {
			env[rep.Visitor] = rep.Total.Int64()
		}
	}
	if len(run.Reports) > 0 {
		env["lines"] = len(run.Reports[0].Lines)
	}
	return env
}

// AggregateRunStatus determines the run status from budget statuses.
//
// Precedence is fail > error > pass. A failed budget is a proven overrun and
// is not masked by an expression error elsewhere. Skipped budgets are
// ignored; with no budgets at all the run is skipped.
func (s *BudgetEvaluator) AggregateRunStatus(statuses []values.Status) values.Status {
	hasFailure := false
	hasError := false
	hasPass := false

	for _, status := range statuses {
		switch status {
		case values.StatusFail:
			hasFailure = true
		case values.StatusError:
			hasError = true
		case values.StatusPass:
			hasPass = true
		case values.StatusSkipped:
			continue
		}
	}

	switch {
	case hasFailure:
		return values.StatusFail
	case hasError:
		return values.StatusError
	case hasPass:
		return values.StatusPass
	default:
		return values.StatusSkipped
	}
}

// EvaluateAll evaluates every budget against the run in declaration order.
func (s *BudgetEvaluator) EvaluateAll(ctx context.Context, budgets []entities.BudgetSpec, run *report.Run) []report.BudgetResult {
	env := BudgetEnv(run)
	results := make([]report.BudgetResult, 0, len(budgets))
	for _, b := range budgets {
		results = append(results, s.Evaluate(ctx, b, env))
	}
	return results
}

// Evaluate checks one budget.
//
// ALL expectations must hold for the budget to pass. A false expectation
// fails the budget; a compile error, runtime error, or non-boolean result
// makes it error. Fail takes precedence over error.
//
// Expressions are limited to 1000 characters and 100 AST nodes and only see
// the variables in env.
func (s *BudgetEvaluator) Evaluate(_ context.Context, budget entities.BudgetSpec, env map[string]interface{}) report.BudgetResult {
	result := report.BudgetResult{
		Name:        budget.Name,
		Description: budget.Description,
	}

	if len(budget.Expect) == 0 {
		result.Status = values.StatusSkipped
		result.Message = "no expectations"
		return result
	}

	options := []expr.Option{
		expr.Env(env),
		expr.AsBool(),
		expr.MaxNodes(maxASTNodes),
	}
	cacheKey := envSignature(env)

	results := make([]report.ExpectationResult, 0, len(budget.Expect))
	hasFailure := false
	hasError := false

	for _, expectExpr := range budget.Expect {
		if len(expectExpr) > maxExpressionLength {
			results = append(results, report.ExpectationResult{
				Expression: expectExpr,
				Message:    fmt.Sprintf("Expression too long (max %d chars): %d chars", maxExpressionLength, len(expectExpr)),
			})
			hasError = true
			continue
		}

		program, err := s.getOrCompileExpression(cacheKey, expectExpr, options)
		if err != nil {
			results = append(results, report.ExpectationResult{
				Expression: expectExpr,
				Message:    fmt.Sprintf("Compilation failed: %v", err),
			})
			hasError = true
			continue
		}

		output, err := expr.Run(program, env)
		if err != nil {
			results = append(results, report.ExpectationResult{
				Expression: expectExpr,
				Message:    fmt.Sprintf("Evaluation failed: %v", err),
			})
			hasError = true
			continue
		}

		passed, ok := output.(bool)
		if !ok {
			results = append(results, report.ExpectationResult{
				Expression: expectExpr,
				Message:    fmt.Sprintf("Expression did not return boolean: %v", output),
			})
			hasError = true
			continue
		}

		if passed {
			results = append(results, report.ExpectationResult{Expression: expectExpr, Passed: true})
			continue
		}

		results = append(results, report.ExpectationResult{
			Expression: expectExpr,
			Message:    s.constructFailureMessage(expectExpr, env),
		})
		hasFailure = true
	}

	result.Expectations = results
	switch {
	case hasFailure:
		result.Status = values.StatusFail
	case hasError:
		result.Status = values.StatusError
	default:
		result.Status = values.StatusPass
	}
	for _, r := range results {
		if !r.Passed {
			result.Message = r.Message
			break
		}
	}
	return result
}

// getOrCompileExpression retrieves a cached program or compiles and caches a new one.
// Programs are keyed by env shape as well as source, since a program is
// type-checked against the variables it was compiled with.
func (s *BudgetEvaluator) getOrCompileExpression(envKey, expression string, options []expr.Option) (*vm.Program, error) {
	key := envKey + "\x00" + expression

	s.cacheMu.RLock()
	program, found := s.programCache[key]
	s.cacheMu.RUnlock()

	if found {
		return program, nil
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Another goroutine may have compiled it while we waited.
	if program, found := s.programCache[key]; found {
		return program, nil
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	s.programCache[key] = program
	return program, nil
}

// constructFailureMessage reports the actual value for simple comparisons
// such as "monthly <= 6000".
func (s *BudgetEvaluator) constructFailureMessage(expression string, env map[string]interface{}) string {
	patterns := []string{"==", "!=", ">=", "<=", ">", "<"}

	for _, op := range patterns {
		if !strings.Contains(expression, op) {
			continue
		}
		parts := strings.SplitN(expression, op, 2)
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])

		if actual, ok := env[left]; ok {
			return fmt.Sprintf("Expected %s %s %s, got %v", left, op, right, actual)
		}
		if strings.HasPrefix(left, "totals.") {
			if totals, ok := env["totals"].(map[string]interface{}); ok {
				if actual, ok := totals[strings.TrimPrefix(left, "totals.")]; ok {
					return fmt.Sprintf("Expected %s %s %s, got %v", left, op, right, actual)
				}
			}
		}
		break
	}

	return fmt.Sprintf("Expression evaluated to false: %s", expression)
}

func envSignature(env map[string]interface{}) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
