// Package adapters provides infrastructure adapters that implement application ports.
// These adapters wrap existing infrastructure components to satisfy port interfaces.
package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reglet-dev/rollup/internal/application/ports"
	"github.com/reglet-dev/rollup/internal/domain/entities"
	infraconfig "github.com/reglet-dev/rollup/internal/infrastructure/config"
	"github.com/reglet-dev/rollup/internal/infrastructure/system"
	"github.com/reglet-dev/rollup/internal/infrastructure/validation"
)

// Ensure adapters implement ports at compile time
var (
	_ ports.GraphLoader    = (*GraphLoaderAdapter)(nil)
	_ ports.GraphValidator = (*GraphValidatorAdapter)(nil)
)

// GraphLoaderAdapter adapts the infrastructure graph loader to the port interface.
type GraphLoaderAdapter struct {
	loader      *infraconfig.GraphLoader
	substitutor *infraconfig.VariableSubstitutor
}

// NewGraphLoaderAdapter creates a new graph loader adapter.
func NewGraphLoaderAdapter() *GraphLoaderAdapter {
	return &GraphLoaderAdapter{
		loader:      infraconfig.NewGraphLoader(),
		substitutor: infraconfig.NewVariableSubstitutor(),
	}
}

// LoadGraph loads a graph and substitutes its variables.
func (a *GraphLoaderAdapter) LoadGraph(path string) (*entities.Document, error) {
	doc, err := a.loader.LoadGraph(path)
	if err != nil {
		return nil, err
	}

	if err := a.substitutor.Substitute(doc); err != nil {
		return nil, fmt.Errorf("variable substitution failed: %w", err)
	}

	return doc, nil
}

// GraphValidatorAdapter adapts the schema validator to the port interface.
type GraphValidatorAdapter struct {
	validator *validation.GraphValidator
}

// NewGraphValidatorAdapter creates a new graph validator adapter.
func NewGraphValidatorAdapter() *GraphValidatorAdapter {
	return &GraphValidatorAdapter{
		validator: validation.NewGraphValidator(),
	}
}

// Validate validates document structure.
func (a *GraphValidatorAdapter) Validate(doc *entities.Document) error {
	return a.validator.Validate(doc)
}

// SystemConfigAdapter adapts the system config loader.
type SystemConfigAdapter struct {
	loader *system.ConfigLoader
}

// NewSystemConfigAdapter creates a new system config adapter.
func NewSystemConfigAdapter() *SystemConfigAdapter {
	return &SystemConfigAdapter{
		loader: system.NewConfigLoader(),
	}
}

// DefaultConfigPath returns ~/.rollup/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rollup", "config.yaml"), nil
}

// LoadConfig loads system configuration from path.
func (a *SystemConfigAdapter) LoadConfig(_ context.Context, path string) (*system.Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	return a.loader.Load(path)
}
