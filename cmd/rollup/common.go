package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// FilterOptions contains the leaf selection flags shared by report and value.
type FilterOptions struct {
	Filter       string
	Kinds        []string
	ExcludeKinds []string
	Paths        []string
}

// RegisterFlags adds filter flags to a cobra command.
func (opts *FilterOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil,
		"Only include leaves of these kinds (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.ExcludeKinds, "exclude-kind", nil,
		"Exclude leaves of these kinds (comma-separated)")
	cmd.Flags().StringSliceVar(&opts.Paths, "path", nil,
		"Only include leaves under these paths (e.g. PC/Memory)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "",
		"Advanced filter expression (e.g. \"kind == 'equipment' && value > 500\")")
}

// CommonOptions contains output and execution flags shared across commands.
type CommonOptions struct {
	// Output
	Format  string
	OutFile string

	// Execution
	Timeout time.Duration

	// Flags (bools grouped for alignment)
	Quiet      bool
	NoColor    bool
	SkipSchema bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 30 * time.Second,
		Format:  "table",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	// Execution
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the entire evaluation (0 to disable)")
	cmd.Flags().BoolVar(&opts.SkipSchema, "skip-schema", false,
		"Skip JSON Schema validation of the graph")

	// Output
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml, junit, sarif")
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Quiet output (errors and exit code only)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false,
		"Disable colored table output")
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options against the supported formats.
func (opts *CommonOptions) ValidateFlags(formats []string) error {
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout cannot be negative")
	}

	for _, f := range formats {
		if opts.Format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(formats, ", "))
}
