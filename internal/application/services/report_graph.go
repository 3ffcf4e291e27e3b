// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/reglet-dev/rollup/internal/application/dto"
	apperrors "github.com/reglet-dev/rollup/internal/application/errors"
	"github.com/reglet-dev/rollup/internal/application/ports"
	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/report"
	"github.com/reglet-dev/rollup/internal/domain/services"
	"github.com/reglet-dev/rollup/internal/domain/values"
	"golang.org/x/sync/errgroup"
)

// DefaultVisitors are the reports produced when a request names none.
var DefaultVisitors = []string{services.VisitorMonthly, services.VisitorYearly}

// ReportGraphUseCase orchestrates the complete report workflow.
// This is a pure application layer component that depends only on ports
// and domain services.
type ReportGraphUseCase struct {
	graphLoader     ports.GraphLoader
	graphValidator  ports.GraphValidator
	graphCompiler   *services.GraphCompiler
	visitors        *services.VisitorRegistry
	combinators     *services.CombinatorRegistry
	assembler       *services.ReportAssembler
	budgetEvaluator *services.BudgetEvaluator
	logger          *slog.Logger
}

// NewReportGraphUseCase creates a new report graph use case.
func NewReportGraphUseCase(
	graphLoader ports.GraphLoader,
	graphValidator ports.GraphValidator,
	graphCompiler *services.GraphCompiler,
	visitors *services.VisitorRegistry,
	combinators *services.CombinatorRegistry,
	assembler *services.ReportAssembler,
	budgetEvaluator *services.BudgetEvaluator,
	logger *slog.Logger,
) *ReportGraphUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportGraphUseCase{
		graphLoader:     graphLoader,
		graphValidator:  graphValidator,
		graphCompiler:   graphCompiler,
		visitors:        visitors,
		combinators:     combinators,
		assembler:       assembler,
		budgetEvaluator: budgetEvaluator,
		logger:          logger,
	}
}

// Execute runs the complete report workflow.
func (uc *ReportGraphUseCase) Execute(ctx context.Context, req dto.ReportGraphRequest) (*dto.ReportGraphResponse, error) {
	startTime := time.Now()

	// 1. Resolve visitors and combinator before touching the filesystem
	visitors, err := uc.resolveVisitors(req.Visitors)
	if err != nil {
		return nil, err
	}
	comb, err := uc.combinators.Resolve(req.Combinator)
	if err != nil {
		return nil, apperrors.NewValidationError("combinator", "invalid combinator", err.Error())
	}
	filter, err := uc.buildFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	// 2. Load, validate and compile
	graph, err := uc.LoadGraph(ctx, req.GraphPath, req.Options.SkipSchemaValidation)
	if err != nil {
		return nil, err
	}

	// 3. Filter
	root, diagnostics, err := uc.applyFilter(graph.Root, filter)
	if err != nil {
		return nil, apperrors.NewEvaluationError("filter", "failed to filter graph", err)
	}

	// 4. Evaluate
	run := report.NewRun(graph.Metadata.Name, graph.Metadata.Version)
	run.RollupVersion = req.Options.RollupVersion

	run.Value, err = root.Value()
	if err != nil {
		return nil, apperrors.NewEvaluationError("value", "failed to compute graph value", err)
	}

	reports, err := uc.assembleReports(ctx, visitors, combinatorName(req.Combinator), comb, root)
	if err != nil {
		return nil, err
	}
	for _, rep := range reports {
		run.AddReport(*rep)
	}

	// 5. Budgets
	if !req.Options.SkipBudgets {
		for _, b := range uc.budgetEvaluator.EvaluateAll(ctx, graph.Budgets, run) {
			run.AddBudgetResult(b)
		}
	}
	run.Status = uc.budgetEvaluator.AggregateRunStatus(run.BudgetStatuses())
	run.Finalize()

	uc.logger.Info("evaluation complete",
		"duration", run.Duration,
		"reports", run.Summary.TotalReports,
		"lines", run.Summary.TotalLines,
		"budgets", run.Summary.TotalBudgets,
		"passed", run.Summary.PassedBudgets,
		"failed", run.Summary.FailedBudgets,
		"errors", run.Summary.ErrorBudgets)

	return &dto.ReportGraphResponse{
		Run: run,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
		Diagnostics: diagnostics,
	}, nil
}

// Value loads a graph and returns the intrinsic value of its (filtered) root.
func (uc *ReportGraphUseCase) Value(ctx context.Context, req dto.ReportGraphRequest) (values.Amount, error) {
	filter, err := uc.buildFilter(req.Filters)
	if err != nil {
		return 0, err
	}
	graph, err := uc.LoadGraph(ctx, req.GraphPath, req.Options.SkipSchemaValidation)
	if err != nil {
		return 0, err
	}
	root, _, err := uc.applyFilter(graph.Root, filter)
	if err != nil {
		return 0, apperrors.NewEvaluationError("filter", "failed to filter graph", err)
	}
	v, err := root.Value()
	if err != nil {
		return 0, apperrors.NewEvaluationError("value", "failed to compute graph value", err)
	}
	return v, nil
}

// Validate loads and compiles a graph without evaluating it.
func (uc *ReportGraphUseCase) Validate(ctx context.Context, req dto.ValidateGraphRequest) (*dto.ValidateGraphResponse, error) {
	graph, err := uc.LoadGraph(ctx, req.GraphPath, req.SkipSchemaValidation)
	if err != nil {
		return nil, err
	}

	resp := &dto.ValidateGraphResponse{
		GraphName:    graph.Metadata.Name,
		GraphVersion: graph.Metadata.Version,
		Budgets:      len(graph.Budgets),
	}
	err = entities.Walk(graph.Root, func(_ []string, e entities.Entity) error {
		if _, ok := e.(*entities.Composite); ok {
			resp.Composites++
		} else {
			resp.Leaves++
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewValidationError("graph", "invalid graph structure", err.Error())
	}
	return resp, nil
}

// LoadGraph loads, validates and compiles the graph at path.
func (uc *ReportGraphUseCase) LoadGraph(ctx context.Context, path string, skipSchema bool) (*entities.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uc.logger.Info("loading graph", "path", path)

	doc, err := uc.graphLoader.LoadGraph(path)
	if err != nil {
		return nil, apperrors.NewValidationError("graph", "failed to load graph", err.Error())
	}

	uc.logger.Info("graph loaded", "name", doc.Metadata.Name, "version", doc.Metadata.Version, "nodes", doc.Root.CountNodes())

	if !skipSchema && uc.graphValidator != nil {
		if err := uc.graphValidator.Validate(doc); err != nil {
			return nil, apperrors.NewValidationError("graph", "schema validation failed", err.Error())
		}
	}

	graph, err := uc.graphCompiler.Compile(doc)
	if err != nil {
		return nil, apperrors.NewValidationError("graph", "compilation failed", err.Error())
	}
	return graph, nil
}

// assembleReports applies each visitor to the graph in parallel. Reports are
// returned in the requested visitor order.
func (uc *ReportGraphUseCase) assembleReports(
	ctx context.Context,
	visitors []services.NamedVisitor,
	combName string,
	comb entities.Combinator,
	root entities.Entity,
) ([]*report.Report, error) {
	reports := make([]*report.Report, len(visitors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, nv := range visitors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := uc.assembler.Assemble(nv.Name, nv.Visitor, combName, comb, root)
			if err != nil {
				return apperrors.NewEvaluationError(nv.Name, "failed to evaluate graph", err)
			}
			uc.logger.Debug("report assembled", "visitor", nv.Name, "lines", len(rep.Lines), "total", rep.Total)
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// BudgetsFailed returns true if any budget failed or errored.
func (uc *ReportGraphUseCase) BudgetsFailed(run *report.Run) bool {
	return run.Summary.FailedBudgets > 0 || run.Summary.ErrorBudgets > 0
}

func (uc *ReportGraphUseCase) resolveVisitors(names []string) ([]services.NamedVisitor, error) {
	if len(names) == 0 {
		names = DefaultVisitors
	}
	visitors, err := uc.visitors.Resolve(names)
	if err != nil {
		return nil, apperrors.NewValidationError("visitors", err.Error())
	}
	return visitors, nil
}

// buildFilter validates filter options and compiles the filter expression.
func (uc *ReportGraphUseCase) buildFilter(filters dto.FilterOptions) (*services.LeafFilter, error) {
	for _, list := range [][]string{filters.IncludeKinds, filters.ExcludeKinds} {
		for _, k := range list {
			if _, err := values.ParseKind(k); err != nil {
				return nil, apperrors.NewValidationError("filters", fmt.Sprintf("unknown kind in filter: %s", k))
			}
		}
	}

	filter := services.NewLeafFilter().
		WithKinds(filters.IncludeKinds).
		WithExcludedKinds(filters.ExcludeKinds).
		WithPathPrefixes(filters.Paths)

	if filters.FilterExpression != "" {
		program, err := services.CompileFilterExpression(filters.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError(
				"filters",
				fmt.Sprintf("%v\nExample: kind == 'equipment' && value > 500", err),
			)
		}
		filter.WithFilterExpression(program)
	}
	return filter, nil
}

func (uc *ReportGraphUseCase) applyFilter(root entities.Entity, filter *services.LeafFilter) (entities.Entity, dto.Diagnostics, error) {
	var diag dto.Diagnostics

	before, err := entities.Leaves(root)
	if err != nil {
		return nil, diag, err
	}
	pruned, err := filter.Prune(root)
	if err != nil {
		return nil, diag, err
	}
	after, err := entities.Leaves(pruned)
	if err != nil {
		return nil, diag, err
	}

	diag.Leaves = len(after)
	diag.FilteredLeaves = len(before) - len(after)
	if !filter.IsEmpty() && len(after) == 0 {
		diag.Warnings = append(diag.Warnings, "filters removed every leaf")
	}
	return pruned, diag, nil
}

func combinatorName(spec string) string {
	if spec == "" {
		return services.CombinatorSum
	}
	return spec
}
