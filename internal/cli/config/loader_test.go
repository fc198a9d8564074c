package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing-but-unused"), nil)
	// An explicit config path that does not exist is an error.
	assert.Error(t, err)
	assert.Nil(t, cfg)

	ResetConfig()
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultModelsDir, cfg.ModelsDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, DefaultWindow, cfg.Window)
	assert.Equal(t, DefaultSelfLoopThreshold, cfg.SelfLoopThreshold)
	assert.Equal(t, DefaultEpsilon, cfg.Epsilon)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.ByteMode)
	assert.Zero(t, cfg.Workers)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "charkov.yaml")
	content := `
corpus_roots:
  - ./src
  - ./docs
models_dir: /data/models
window: 4
byte_mode: true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"./src", "./docs"}, cfg.CorpusRoots)
	assert.Equal(t, "/data/models", cfg.ModelsDir)
	assert.Equal(t, 4, cfg.Window)
	assert.True(t, cfg.ByteMode)
	// Values absent from the file keep their defaults.
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "charkov.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("models_dir: from-file\n"), 0o644))

	t.Setenv("CHARKOV_MODELS_DIR", "from-env")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ModelsDir)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Cleanup(ResetConfig)

	t.Setenv("CHARKOV_MODELS_DIR", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("models-dir", "", "")
	flags.String("state", "", "")
	flags.Int("workers", 0, "")
	require.NoError(t, flags.Parse([]string{"--models-dir=from-flag", "--state=catalog.db"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.ModelsDir)
	assert.Equal(t, "catalog.db", cfg.StatePath)
	// Unchanged flags do not override defaults.
	assert.Zero(t, cfg.Workers)
}

func TestLoadConfig_CurrentConfigTracking(t *testing.T) {
	t.Cleanup(ResetConfig)

	assert.Nil(t, GetCurrentConfig())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Same(t, cfg, GetCurrentConfig())

	ResetConfig()
	assert.Nil(t, GetCurrentConfig())
}

func TestNewLogger_Levels(t *testing.T) {
	quiet := NewLogger(false)
	assert.False(t, quiet.Enabled(t.Context(), slog.LevelDebug))

	verbose := NewLogger(true)
	assert.True(t, verbose.Enabled(t.Context(), slog.LevelDebug))
}
