package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/rollup/internal/domain/entities"
	"github.com/reglet-dev/rollup/internal/domain/services"
	"github.com/reglet-dev/rollup/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load_FileNotExists(t *testing.T) {
	loader := NewConfigLoader()
	cfg, err := loader.Load("/nonexistent/config.yaml")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, []string{"monthly", "yearly"}, cfg.Defaults.Visitors)
	assert.Empty(t, cfg.Visitors)
}

func TestConfigLoader_Load_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yaml := `
defaults:
  format: json
visitors:
  - name: quarterly
    description: Cost per quarter
    base: yearly
    divisor: 4
  - name: biennial
    base: yearly
    multiplier: 2
`
	err := os.WriteFile(configPath, []byte(yaml), 0600)
	require.NoError(t, err)

	cfg, err := NewConfigLoader().Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Defaults.Format)
	// Unset fields keep their defaults
	assert.Equal(t, "sum", cfg.Defaults.Combinator)
	assert.Equal(t, []string{"monthly", "yearly"}, cfg.Defaults.Visitors)

	require.Len(t, cfg.Visitors, 2)
	assert.Equal(t, "quarterly", cfg.Visitors[0].Name)
	assert.Equal(t, int64(4), cfg.Visitors[0].Divisor)
	assert.Equal(t, int64(2), cfg.Visitors[1].Multiplier)
}

func TestConfigLoader_Load_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("defaults: [oops"), 0600))

	_, err := NewConfigLoader().Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse system config")
}

func TestConfig_RegisterVisitors(t *testing.T) {
	cfg := &Config{
		Visitors: []VisitorConfig{
			{Name: "quarterly", Base: "yearly", Divisor: 4},
			{Name: "half", Base: "quarterly", Multiplier: 2},
		},
	}

	registry := services.NewVisitorRegistry()
	require.NoError(t, cfg.RegisterVisitors(registry))
	assert.Equal(t, []string{"half", "monthly", "quarterly", "yearly"}, registry.Names())

	quarterly, err := registry.Get("quarterly")
	require.NoError(t, err)
	assert.Equal(t, "yearly × 1 / 4", quarterly.Description)

	got, err := entities.NewFixedPriceContract("alpha", 10000).Accept(quarterly.Visitor)
	require.NoError(t, err)
	assert.Equal(t, values.Amount(2500), got)

	half, err := registry.Get("half")
	require.NoError(t, err)
	got, err = entities.NewFixedPriceContract("alpha", 10000).Accept(half.Visitor)
	require.NoError(t, err)
	assert.Equal(t, values.Amount(5000), got)
}

func TestConfig_RegisterVisitors_Errors(t *testing.T) {
	tests := []struct {
		name    string
		visitor VisitorConfig
		wantErr string
	}{
		{"missing base", VisitorConfig{Name: "x"}, "base cannot be empty"},
		{"unknown base", VisitorConfig{Name: "x", Base: "weekly"}, "unknown visitor"},
		{"negative divisor", VisitorConfig{Name: "x", Base: "yearly", Divisor: -1}, "divisor must be positive"},
		{"duplicate name", VisitorConfig{Name: "monthly", Base: "yearly"}, "already registered"},
		{"empty name", VisitorConfig{Base: "yearly"}, "name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Visitors: []VisitorConfig{tt.visitor}}
			err := cfg.RegisterVisitors(services.NewVisitorRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
