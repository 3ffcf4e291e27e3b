// Package container provides dependency injection for the application.
package container

import (
	"context"
	"log/slog"

	apperrors "github.com/reglet-dev/rollup/internal/application/errors"
	"github.com/reglet-dev/rollup/internal/application/ports"
	"github.com/reglet-dev/rollup/internal/application/services"
	domainservices "github.com/reglet-dev/rollup/internal/domain/services"
	"github.com/reglet-dev/rollup/internal/infrastructure/adapters"
	"github.com/reglet-dev/rollup/internal/infrastructure/output"
	"github.com/reglet-dev/rollup/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	graphLoader        ports.GraphLoader
	graphValidator     ports.GraphValidator
	formatters         ports.OutputFormatterFactory
	visitors           *domainservices.VisitorRegistry
	combinators        *domainservices.CombinatorRegistry
	reportGraphUseCase *services.ReportGraphUseCase
	systemCfg          *system.Config
	logger             *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Initialize adapters
	graphLoader := adapters.NewGraphLoaderAdapter()
	graphValidator := adapters.NewGraphValidatorAdapter()
	systemConfigAdapter := adapters.NewSystemConfigAdapter()

	// Load system config
	systemCfg, err := systemConfigAdapter.LoadConfig(context.TODO(), opts.SystemConfigPath)
	if err != nil {
		opts.Logger.Debug("failed to load system config, using defaults", "error", err)
		systemCfg = system.DefaultConfig()
	}

	// Create domain services; configured visitors join the built-ins
	visitors := domainservices.NewVisitorRegistry()
	if err := systemCfg.RegisterVisitors(visitors); err != nil {
		return nil, apperrors.NewConfigurationError("visitors", "invalid visitor configuration", err)
	}
	combinators := domainservices.NewCombinatorRegistry()

	// Wire up use case
	reportGraphUseCase := services.NewReportGraphUseCase(
		graphLoader,
		graphValidator,
		domainservices.NewGraphCompiler(),
		visitors,
		combinators,
		domainservices.NewReportAssembler(),
		domainservices.NewBudgetEvaluator(),
		opts.Logger,
	)

	return &Container{
		graphLoader:        graphLoader,
		graphValidator:     graphValidator,
		formatters:         output.NewFormatterFactory(),
		visitors:           visitors,
		combinators:        combinators,
		reportGraphUseCase: reportGraphUseCase,
		systemCfg:          systemCfg,
		logger:             opts.Logger,
	}, nil
}

// ReportGraphUseCase returns the report graph use case.
func (c *Container) ReportGraphUseCase() *services.ReportGraphUseCase {
	return c.reportGraphUseCase
}

// GraphLoader returns the graph loader port.
func (c *Container) GraphLoader() ports.GraphLoader {
	return c.graphLoader
}

// GraphValidator returns the graph validator port.
func (c *Container) GraphValidator() ports.GraphValidator {
	return c.graphValidator
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() ports.OutputFormatterFactory {
	return c.formatters
}

// Visitors returns the visitor registry, including configured visitors.
func (c *Container) Visitors() *domainservices.VisitorRegistry {
	return c.visitors
}

// Combinators returns the combinator registry.
func (c *Container) Combinators() *domainservices.CombinatorRegistry {
	return c.combinators
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
