package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/rollup/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
//
// Usage:
//
//	cmd := &cobra.Command{
//	    Use: "value",
//	    RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
//	        _, err := ctx.Container.ReportGraphUseCase().Value(ctx.Context, req)
//	        return err
//	    }),
//	}
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(container.Options{
			SystemConfigPath: configPath(),
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		if ctx.Context == nil {
			ctx.Context = context.Background()
		}

		return handler(ctx, cmd, args)
	}
}

// resolveString picks a string setting: an explicit flag wins, then the
// ROLLUP_* environment or config file, then fallback.
func resolveString(cmd *cobra.Command, name, fallback string) string {
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return flag.Value.String()
	}
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	return fallback
}

// resolveStringSlice is resolveString for list flags.
func resolveStringSlice(cmd *cobra.Command, name string, fallback []string) []string {
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		values, _ := cmd.Flags().GetStringSlice(name)
		return values
	}
	if viper.IsSet(name) {
		return viper.GetStringSlice(name)
	}
	return fallback
}
