package main

import (
	"fmt"

	"github.com/reglet-dev/rollup/internal/application/dto"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var skipSchema bool

	cmd := &cobra.Command{
		Use:   "validate <graph.yaml>",
		Short: "Check a graph file without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			resp, err := ctx.Container.ReportGraphUseCase().Validate(ctx.Context, dto.ValidateGraphRequest{
				GraphPath:            args[0],
				SkipSchemaValidation: skipSchema,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (v%s) is valid: %d leaves, %d composites, %d budgets\n",
				resp.GraphName, resp.GraphVersion, resp.Leaves, resp.Composites, resp.Budgets)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Skip JSON Schema validation of the graph")

	return cmd
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}
