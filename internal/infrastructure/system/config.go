// Package system provides infrastructure for system-level configuration.
// This covers the user config file (~/.rollup/config.yaml): report defaults
// and additional visitors.
package system

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/rollup/internal/domain/services"
)

// Config represents the global configuration file (~/.rollup/config.yaml).
// This is infrastructure-level configuration separate from graph documents.
type Config struct {
	Defaults DefaultsConfig  `yaml:"defaults"`
	Visitors []VisitorConfig `yaml:"visitors"`
}

// DefaultsConfig holds report settings used when no flag overrides them.
type DefaultsConfig struct {
	Combinator string   `yaml:"combinator"`
	Format     string   `yaml:"format"`
	Visitors   []string `yaml:"visitors"`
}

// VisitorConfig declares an extra visitor that scales a registered one.
//
//	visitors:
//	  - name: quarterly
//	    base: yearly
//	    divisor: 4
type VisitorConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Base        string `yaml:"base"`
	Multiplier  int64  `yaml:"multiplier"`
	Divisor     int64  `yaml:"divisor"`
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Visitors:   []string{services.VisitorMonthly, services.VisitorYearly},
			Combinator: services.CombinatorSum,
			Format:     "table",
		},
		Visitors: []VisitorConfig{},
	}
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig().
// Fields missing from the file keep their defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	return config, nil
}

// RegisterVisitors adds every configured visitor to the registry.
// Bases are looked up in the registry, so a visitor may build on one
// declared earlier in the list.
func (c *Config) RegisterVisitors(registry *services.VisitorRegistry) error {
	for i, vc := range c.Visitors {
		if vc.Base == "" {
			return fmt.Errorf("visitor %d (%s): base cannot be empty", i, vc.Name)
		}

		base, err := registry.Get(vc.Base)
		if err != nil {
			return fmt.Errorf("visitor %d (%s): %w", i, vc.Name, err)
		}

		multiplier, divisor := vc.Multiplier, vc.Divisor
		if multiplier == 0 {
			multiplier = 1
		}
		if divisor == 0 {
			divisor = 1
		}

		scaled, err := services.NewScaledVisitor(base.Visitor, multiplier, divisor)
		if err != nil {
			return fmt.Errorf("visitor %d (%s): %w", i, vc.Name, err)
		}

		description := vc.Description
		if description == "" {
			description = fmt.Sprintf("%s × %d / %d", base.Name, multiplier, divisor)
		}

		if err := registry.Register(vc.Name, description, scaled); err != nil {
			return fmt.Errorf("visitor %d: %w", i, err)
		}
	}
	return nil
}
