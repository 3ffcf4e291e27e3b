package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/reglet-dev/rollup/internal/application/dto"
	"github.com/reglet-dev/rollup/internal/application/ports"
	"github.com/reglet-dev/rollup/internal/version"
	"github.com/spf13/cobra"
)

// exitBudgetsFailed is returned when the run completed but a budget failed.
const exitBudgetsFailed = 2

// ReportOptions contains all options for the report command.
type ReportOptions struct {
	Combinator string
	Visitors   []string
	Filters    FilterOptions
	Common     CommonOptions

	SkipBudgets bool
}

// reportCmd represents the report command
var reportCmd = newReportCmd()

func newReportCmd() *cobra.Command {
	opts := &ReportOptions{Common: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "report <graph.yaml>",
		Short: "Produce cost reports for a graph and check its budgets",
		Long: `Load a graph file, apply each requested visitor to every leaf and fold
the results with the chosen combinator. Budgets declared in the graph are
evaluated against the totals.

Filtering:
  --kind equipment                 Only equipment leaves
  --exclude-kind support           Drop support contracts
  --path PC/Memory                 Only leaves under PC/Memory
  --filter "value > 500"           Advanced filter expression

Combinators:
  sum, max, or an expression over acc and next (e.g. "add(acc, next * 2)")

Exit codes:
  0  all budgets passed
  1  the graph could not be evaluated
  2  at least one budget failed`,
		Example: `  rollup report project.yaml
  rollup report project.yaml --visitor monthly --format json
  rollup report pc.yaml --combinator max --path PC/Memory`,
		Args: cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runReport(ctx, cmd, args[0], opts)
		}),
	}

	cmd.Flags().StringSliceVar(&opts.Visitors, "visitor", nil,
		"Visitors to report (comma-separated, default from config: monthly,yearly)")
	cmd.Flags().StringVar(&opts.Combinator, "combinator", "",
		"Combinator: sum, max, or an expression over acc and next")
	cmd.Flags().BoolVar(&opts.SkipBudgets, "skip-budgets", false,
		"Do not evaluate budgets")
	opts.Filters.RegisterFlags(cmd)
	opts.Common.RegisterFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// resolveDefaults fills unset options from flags, environment and system config.
func (opts *ReportOptions) resolveDefaults(ctx *CommandContext, cmd *cobra.Command) {
	defaults := ctx.Container.SystemConfig().Defaults
	opts.Visitors = resolveStringSlice(cmd, "visitor", defaults.Visitors)
	opts.Combinator = resolveString(cmd, "combinator", defaults.Combinator)
	opts.Common.Format = resolveString(cmd, "format", defaults.Format)
	if opts.Common.Format == "" {
		opts.Common.Format = "table"
	}
}

func runReport(ctx *CommandContext, cmd *cobra.Command, graphPath string, opts *ReportOptions) error {
	opts.resolveDefaults(ctx, cmd)

	formatters := ctx.Container.Formatters()
	if err := opts.Common.ValidateFlags(formatters.SupportedFormats()); err != nil {
		return err
	}

	runCtx, cancel := opts.Common.ApplyToContext(ctx.Context)
	defer cancel()

	req := dto.ReportGraphRequest{
		GraphPath:  graphPath,
		Visitors:   opts.Visitors,
		Combinator: opts.Combinator,
		Filters:    opts.Filters.toDTO(),
		Options: dto.ReportOptions{
			RollupVersion:        version.Get().String(),
			SkipSchemaValidation: opts.Common.SkipSchema,
			SkipBudgets:          opts.SkipBudgets,
		},
	}

	useCase := ctx.Container.ReportGraphUseCase()
	resp, err := useCase.Execute(runCtx, req)
	if err != nil {
		return err
	}

	for _, w := range resp.Diagnostics.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Warning: %s\n", w)
	}

	ctx.Logger.Info("report complete",
		"duration", resp.Run.Duration,
		"reports", resp.Run.Summary.TotalReports,
		"leaves", resp.Diagnostics.Leaves,
		"filtered", resp.Diagnostics.FilteredLeaves,
		"passed", resp.Run.Summary.PassedBudgets,
		"failed", resp.Run.Summary.FailedBudgets,
		"errors", resp.Run.Summary.ErrorBudgets)

	if !opts.Common.Quiet {
		err := writeOutput(cmd.OutOrStdout(), opts.Common.OutFile, func(writer io.Writer) error {
			formatter, err := formatters.Create(opts.Common.Format, writer, ports.FormatterOptions{
				GraphPath: graphPath,
				Indent:    true,
				Color:     !opts.Common.NoColor && isTerminal(writer),
			})
			if err != nil {
				return err
			}
			if err := formatter.Format(resp.Run); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if useCase.BudgetsFailed(resp.Run) {
		return &exitError{
			code: exitBudgetsFailed,
			err: fmt.Errorf("budgets failed: %d passed, %d failed, %d errors",
				resp.Run.Summary.PassedBudgets,
				resp.Run.Summary.FailedBudgets,
				resp.Run.Summary.ErrorBudgets),
		}
	}

	return nil
}

func (opts *FilterOptions) toDTO() dto.FilterOptions {
	return dto.FilterOptions{
		FilterExpression: opts.Filter,
		IncludeKinds:     opts.Kinds,
		ExcludeKinds:     opts.ExcludeKinds,
		Paths:            opts.Paths,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeOutput runs write against the file at path, or fallback when path is
// empty. A file that fails to close is reported as an error so a truncated
// report is never mistaken for a complete one.
func writeOutput(fallback io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(fallback)
	}

	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	return write(file)
}
