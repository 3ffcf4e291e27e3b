package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var visitorsCmd = &cobra.Command{
	Use:   "visitors",
	Short: "List the available visitors and combinators",
	Args:  cobra.NoArgs,
	RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		registry := ctx.Container.Visitors()

		fmt.Fprintln(out, "Visitors:")
		for _, name := range registry.Names() {
			v, err := registry.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-12s %s\n", v.Name, v.Description)
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Combinators: %s\n", strings.Join(ctx.Container.Combinators().Names(), ", "))
		fmt.Fprintln(out, "  Expressions over acc and next are also accepted, e.g. \"add(acc, next)\".")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(visitorsCmd)
}
