package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/reglet-dev/rollup/internal/templates"
	"github.com/spf13/cobra"
)

// InitOptions contains all options for the init command.
type InitOptions struct {
	Template   string
	Name       string
	OutputPath string
	MonthlyCap int64
	YearlyCap  int64

	NoInteractive bool
	Force         bool
}

var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [template]",
		Short: "Create a starter graph file",
		Long: `Generate a graph file from a built-in template.

Templates:
  contracts   A project of fixed price, support and time and materials contracts
  equipment   A PC built from equipment parts`,
		Example: `  rollup init
  rollup init contracts --name website --monthly-cap 6000 --no-interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Template = args[0]
			}
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Graph name")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "graph.yaml", "Output file path")
	cmd.Flags().Int64Var(&opts.MonthlyCap, "monthly-cap", 0, "Add a monthly budget with this cap")
	cmd.Flags().Int64Var(&opts.YearlyCap, "yearly-cap", 0, "Add a yearly budget with this cap")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "Disable interactive prompts")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing output file")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	if !opts.NoInteractive {
		if err := promptInit(opts); err != nil {
			return err
		}
	}

	if opts.Template == "" {
		return fmt.Errorf("a template is required with --no-interactive")
	}
	if opts.Name == "" {
		opts.Name = opts.Template
	}
	if opts.MonthlyCap < 0 || opts.YearlyCap < 0 {
		return fmt.Errorf("budget caps cannot be negative")
	}

	var buf bytes.Buffer
	err := templates.Render(&buf, opts.Template, templates.GraphData{
		Name:       opts.Name,
		MonthlyCap: opts.MonthlyCap,
		YearlyCap:  opts.YearlyCap,
	})
	if err != nil {
		return err
	}

	if err := writeGraphFile(opts.OutputPath, buf.Bytes(), opts.Force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s from the %s template\n", opts.OutputPath, opts.Template)
	fmt.Fprintf(cmd.OutOrStdout(), "Run: rollup report %s\n", opts.OutputPath)
	return nil
}

func promptInit(opts *InitOptions) error {
	if opts.Template == "" {
		names, err := templates.TemplateNames()
		if err != nil {
			return err
		}
		options := make([]huh.Option[string], 0, len(names))
		for _, name := range names {
			options = append(options, huh.NewOption(name, name))
		}

		err = huh.NewSelect[string]().
			Title("Select a template").
			Options(options...).
			Value(&opts.Template).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.Name == "" {
		err := huh.NewInput().
			Title("Graph name").
			Placeholder(opts.Template).
			Value(&opts.Name).
			Run()
		if err != nil {
			return err
		}
	}

	if opts.MonthlyCap == 0 {
		capValue, err := promptCap("Monthly budget cap (blank for none)")
		if err != nil {
			return err
		}
		opts.MonthlyCap = capValue
	}
	if opts.YearlyCap == 0 {
		capValue, err := promptCap("Yearly budget cap (blank for none)")
		if err != nil {
			return err
		}
		opts.YearlyCap = capValue
	}

	return nil
}

func promptCap(title string) (int64, error) {
	var raw string
	err := huh.NewInput().
		Title(title).
		Validate(func(s string) error {
			_, err := parseCap(s)
			return err
		}).
		Value(&raw).
		Run()
	if err != nil {
		return 0, err
	}
	return parseCap(raw)
}

// parseCap parses an optional non-negative whole amount.
func parseCap(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("enter a whole number")
	}
	if v < 0 {
		return 0, fmt.Errorf("cap cannot be negative")
	}
	return v, nil
}

func writeGraphFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check output file: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	return nil
}
