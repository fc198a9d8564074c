// Package config loads charkov configuration from file, environment, and
// flags with koanf.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Package-level koanf instance and config tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile picks the config file: an explicit path wins, otherwise
// charkov.yaml then charkov.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"charkov.yaml", "charkov.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// GetConfigFileUsed returns the config file loaded by the last LoadConfig.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the config loaded by the last LoadConfig, or nil.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoadConfig loads configuration with precedence (highest to lowest):
// flags > CHARKOV_* environment variables > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"models_dir":          DefaultModelsDir,
		"state_path":          DefaultStateFile,
		"max_file_size":       DefaultMaxFileSize,
		"window":              DefaultWindow,
		"self_loop_threshold": DefaultSelfLoopThreshold,
		"epsilon":             DefaultEpsilon,
		"byte_mode":           false,
		"workers":             0,
		"verbose":             false,
		"output":              DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment (CHARKOV_MAX_FILE_SIZE -> max_file_size)
	if err := k.Load(env.Provider("CHARKOV_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CHARKOV_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (only those explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")

			// The CLI uses --state for brevity; the config key is state_path.
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}
			// --corpus maps to corpus_roots.
			if key == "corpus" {
				return "corpus_roots", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// NewLogger builds the CLI's structured logger: debug level when verbose,
// text handler on stderr.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
