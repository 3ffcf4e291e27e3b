package container

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/reglet-dev/rollup/internal/application/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New(Options{SystemConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	assert.NotNil(t, c.ReportGraphUseCase())
	assert.NotNil(t, c.GraphLoader())
	assert.NotNil(t, c.GraphValidator())
	assert.NotNil(t, c.Logger())
	assert.Equal(t, []string{"monthly", "yearly"}, c.Visitors().Names())
	assert.Equal(t, []string{"max", "sum"}, c.Combinators().Names())
	assert.Contains(t, c.Formatters().SupportedFormats(), "sarif")
	assert.Equal(t, "table", c.SystemConfig().Defaults.Format)
}

func TestNew_ConfiguredVisitors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
visitors:
  - name: quarterly
    base: yearly
    divisor: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := New(Options{SystemConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"monthly", "quarterly", "yearly"}, c.Visitors().Names())
}

func TestNew_InvalidVisitorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
visitors:
  - name: weekly
    base: daily
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := New(Options{SystemConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid visitor configuration")

	var cfgErr *apperrors.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
