package commands

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/charkov/charkov/internal/cli/config"
	"github.com/charkov/charkov/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext with an open engine.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := engine.New(engine.Config{
		CorpusRoots:       cfg.CorpusRoots,
		ModelsDir:         cfg.ModelsDir,
		StatePath:         cfg.StatePath,
		MaxFileSize:       cfg.MaxFileSize,
		Window:            cfg.Window,
		SelfLoopThreshold: cfg.SelfLoopThreshold,
		Epsilon:           cfg.Epsilon,
		ByteMode:          cfg.ByteMode,
		Workers:           cfg.Workers,
		Logger:            logger,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: eng,
	}, cleanup, nil
}

var (
	fallbackOnce sync.Once
	fallbackCfg  *config.Config
)

// getConfig returns the current configuration. It uses
// config.GetCurrentConfig() if available, otherwise falls back to a single
// shared instance built from environment variables with defaults, so
// commands that adjust it before opening an engine see their changes.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	fallbackOnce.Do(func() {
		fallbackCfg = newFallbackConfig()
	})
	return fallbackCfg
}

func newFallbackConfig() *config.Config {
	return &config.Config{
		ModelsDir:         getEnvOrDefault("CHARKOV_MODELS_DIR", config.DefaultModelsDir),
		StatePath:         getEnvOrDefault("CHARKOV_STATE_PATH", config.DefaultStateFile),
		MaxFileSize:       getEnvInt64OrDefault("CHARKOV_MAX_FILE_SIZE", config.DefaultMaxFileSize),
		Window:            config.DefaultWindow,
		SelfLoopThreshold: config.DefaultSelfLoopThreshold,
		Epsilon:           config.DefaultEpsilon,
		Verbose:           os.Getenv("CHARKOV_VERBOSE") == "true",
		Output:            getEnvOrDefault("CHARKOV_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
