package config

// Defaults applied before the config file, environment, and flags.
const (
	DefaultModelsDir         = "models"
	DefaultStateFile         = ".charkov/state.db"
	DefaultMaxFileSize       = 10 << 20 // 10 MiB
	DefaultWindow            = 3
	DefaultSelfLoopThreshold = 0.5
	DefaultEpsilon           = 0.001
	DefaultOutput            = "text"
)

// Config is the resolved charkov configuration.
type Config struct {
	// CorpusRoots are the files or directories scanned by `charkov build`.
	CorpusRoots []string `koanf:"corpus_roots"`
	// ModelsDir holds persisted *.bin models.
	ModelsDir string `koanf:"models_dir"`
	// StatePath is the SQLite catalog location.
	StatePath string `koanf:"state_path"`
	// MaxFileSize is the per-source ingestion ceiling in bytes.
	MaxFileSize int64 `koanf:"max_file_size"`
	// Window is the shared-pattern length used by comparisons.
	Window int `koanf:"window"`
	// SelfLoopThreshold is the fixed-point self-transition ratio.
	SelfLoopThreshold float64 `koanf:"self_loop_threshold"`
	// Epsilon is the cross-model frequency-equality tolerance.
	Epsilon float64 `koanf:"epsilon"`
	// ByteMode ingests raw bytes instead of UTF-8 runes.
	ByteMode bool `koanf:"byte_mode"`
	// Workers is the parallel build width; zero selects GOMAXPROCS.
	Workers int `koanf:"workers"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// Output selects the report format (text|json).
	Output string `koanf:"output"`
}
