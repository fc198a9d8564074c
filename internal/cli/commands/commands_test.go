// Package commands tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charkov/charkov/internal/cli/config"
	"github.com/charkov/charkov/pkg/model"
)

func TestNewBuildCommand(t *testing.T) {
	cmd := NewBuildCommand()

	assert.Equal(t, "build [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"name", "out", "reverse"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewModelsCommand(t *testing.T) {
	cmd := NewModelsCommand()

	assert.Equal(t, "models", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"inspect", "top"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewCompareCommand(t *testing.T) {
	cmd := NewCompareCommand()

	assert.Equal(t, "compare <model-a> <model-b>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"window", "jaccard", "max-patterns"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewClusterCommand(t *testing.T) {
	cmd := NewClusterCommand()

	assert.Equal(t, "cluster", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewRankCommand(t *testing.T) {
	cmd := NewRankCommand()

	assert.Equal(t, "rank", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("top"), "flag top should exist")
}

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate <model>", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"start", "max-len", "patterns", "min-prob"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewFixedPointsCommand(t *testing.T) {
	cmd := NewFixedPointsCommand()

	assert.Equal(t, "fixedpoints <model>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("threshold"), "flag threshold should exist")
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch [paths...]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("name"), "flag name should exist")
}

func TestParseStartSymbol(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.Symbol
		wantErr bool
	}{
		{name: "single char", input: "a", want: 'a'},
		{name: "unicode char", input: "é", want: 'é'},
		{name: "decimal code", input: "97", want: 'a'},
		{name: "hex code", input: "0x61", want: 'a'},
		{name: "empty", input: "", wantErr: true},
		{name: "multi-char word", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStartSymbol(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfig_FallbackIsShared(t *testing.T) {
	config.ResetConfig()

	a := getConfig()
	b := getConfig()
	require.Same(t, a, b)

	// Adjustments made before opening an engine stick.
	orig := a.Window
	a.Window = orig + 1
	assert.Equal(t, orig+1, getConfig().Window)
	a.Window = orig
}

func TestSymbolLabel(t *testing.T) {
	assert.Equal(t, "'a'", symbolLabel('a'))
	assert.Equal(t, "10", symbolLabel(model.Symbol('\n')))
}
