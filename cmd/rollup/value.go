package main

import (
	"fmt"

	"github.com/reglet-dev/rollup/internal/application/dto"
	"github.com/spf13/cobra"
)

func newValueCmd() *cobra.Command {
	var (
		filters    FilterOptions
		skipSchema bool
	)

	cmd := &cobra.Command{
		Use:   "value <graph.yaml>",
		Short: "Print the intrinsic value of a graph",
		Long: `Print the sum of the intrinsic values of all leaves in the graph.
Filters select which leaves contribute.`,
		Example: `  rollup value pc.yaml
  rollup value pc.yaml --path PC/Memory`,
		Args: cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			v, err := ctx.Container.ReportGraphUseCase().Value(ctx.Context, dto.ReportGraphRequest{
				GraphPath: args[0],
				Filters:   filters.toDTO(),
				Options:   dto.ReportOptions{SkipSchemaValidation: skipSchema},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}),
	}

	filters.RegisterFlags(cmd)
	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Skip JSON Schema validation of the graph")

	return cmd
}

func init() {
	rootCmd.AddCommand(newValueCmd())
}
