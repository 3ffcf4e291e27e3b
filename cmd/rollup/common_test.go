package main

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonOptions_ApplyToContext(t *testing.T) {
	t.Parallel()

	t.Run("with timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 100 * time.Millisecond}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 10*time.Millisecond)
	})

	t.Run("no timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 0}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}

func TestCommonOptions_ValidateFlags(t *testing.T) {
	t.Parallel()

	formats := []string{"table", "json", "yaml", "junit", "sarif"}

	tests := []struct {
		name    string
		opts    CommonOptions
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid options",
			opts:    CommonOptions{Format: "table"},
			wantErr: false,
		},
		{
			name:    "sarif",
			opts:    CommonOptions{Format: "sarif", Timeout: time.Second},
			wantErr: false,
		},
		{
			name:    "invalid format",
			opts:    CommonOptions{Format: "xml"},
			wantErr: true,
			errMsg:  "invalid format: xml (valid: table, json, yaml, junit, sarif)",
		},
		{
			name:    "negative timeout",
			opts:    CommonOptions{Format: "json", Timeout: -time.Second},
			wantErr: true,
			errMsg:  "--timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.ValidateFlags(formats)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveString(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("format", "table", "")
		cmd.Flags().StringSlice("visitor", nil, "")
		return cmd
	}

	t.Run("fallback when flag not set", func(t *testing.T) {
		cmd := newCmd()
		assert.Equal(t, "yaml", resolveString(cmd, "format", "yaml"))
		assert.Equal(t, []string{"monthly"}, resolveStringSlice(cmd, "visitor", []string{"monthly"}))
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set("format", "json"))
		require.NoError(t, cmd.Flags().Set("visitor", "yearly,quarterly"))

		assert.Equal(t, "json", resolveString(cmd, "format", "yaml"))
		assert.Equal(t, []string{"yearly", "quarterly"}, resolveStringSlice(cmd, "visitor", []string{"monthly"}))
	})

	t.Run("unknown flag uses fallback", func(t *testing.T) {
		assert.Equal(t, "sum", resolveString(newCmd(), "combinator", "sum"))
	})
}
