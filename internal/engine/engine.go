// Package engine orchestrates the charkov pipeline: corpus scanning and
// model building, model discovery and registration, and the comparison,
// clustering, ranking, and generation operations exposed by the CLI.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charkov/charkov/internal/builder"
	"github.com/charkov/charkov/internal/registry"
	"github.com/charkov/charkov/internal/scanner"
	"github.com/charkov/charkov/internal/state"
	"github.com/charkov/charkov/pkg/codec"
	"github.com/charkov/charkov/pkg/compare"
	"github.com/charkov/charkov/pkg/generate"
	"github.com/charkov/charkov/pkg/model"
)

// Config holds engine configuration.
type Config struct {
	// CorpusRoots are files or directories scanned by BuildCorpus.
	CorpusRoots []string
	// ModelsDir is the directory holding persisted *.bin models.
	ModelsDir string
	// StatePath is the SQLite catalog path; empty disables the catalog.
	StatePath string
	// MaxFileSize is the per-source ingestion ceiling in bytes.
	MaxFileSize int64
	// Window is the shared-pattern length for comparisons.
	Window int
	// SelfLoopThreshold is the fixed-point self-transition ratio.
	SelfLoopThreshold float64
	// Epsilon is the cross-model frequency-equality tolerance.
	Epsilon float64
	// ByteMode ingests raw bytes instead of UTF-8 runes.
	ByteMode bool
	// Reverse additionally builds the reversed table during BuildCorpus.
	Reverse bool
	// Workers is the parallel build width.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine ties the scanner, builder, registry, and catalog together.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	store    *state.SQLiteStore
	registry *registry.Registry
}

// New creates an engine. When cfg.StatePath is set the catalog is opened and
// migrated immediately.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Window < 2 {
		cfg.Window = compare.DefaultWindow
	}
	if cfg.SelfLoopThreshold <= 0 {
		cfg.SelfLoopThreshold = generate.DefaultSelfLoopThreshold
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = 0.001
	}

	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(),
	}

	if cfg.StatePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate state store: %w", err)
		}
		e.store = store
	}

	return e, nil
}

// Close releases the engine's catalog connection.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// SetReverse toggles reversed-table accumulation for subsequent builds.
func (e *Engine) SetReverse(reverse bool) {
	e.cfg.Reverse = reverse
}

// Registry exposes the in-memory registry for read-only operations.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// BuildCorpus scans the configured corpus roots and builds a model.
// Directories are walked recursively; every regular file is a source.
func (e *Engine) BuildCorpus(ctx context.Context) (*builder.Result, error) {
	sources, err := e.collectSources()
	if err != nil {
		return nil, err
	}
	return e.BuildSources(ctx, sources)
}

// BuildSources builds a model from an explicit source list.
func (e *Engine) BuildSources(ctx context.Context, sources []scanner.Source) (*builder.Result, error) {
	e.logger.Info("starting build", "sources", len(sources), "byte_mode", e.cfg.ByteMode)

	result, err := builder.Build(ctx, sources, builder.Options{
		Workers:       e.cfg.Workers,
		MaxSourceSize: e.cfg.MaxFileSize,
		ByteMode:      e.cfg.ByteMode,
		Reverse:       e.cfg.Reverse,
		Logger:        e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	return result, nil
}

// collectSources expands the corpus roots into a flat source list.
// A root may be a directory (walked recursively), an .idx index of paths
// (expanded line by line, one source per entry), or a plain file. A missing
// root becomes a FileSource so the scanner records the skip rather than the
// walk aborting.
func (e *Engine) collectSources() ([]scanner.Source, error) {
	if len(e.cfg.CorpusRoots) == 0 {
		return nil, fmt.Errorf("no corpus roots configured")
	}

	var sources []scanner.Source
	for _, root := range e.cfg.CorpusRoots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			if filepath.Ext(root) == ".idx" {
				expanded, idxErr := scanner.ExpandIndex(root)
				if idxErr != nil {
					// An unreadable index ends up as a recorded skip, the
					// same as any other unavailable source.
					e.logger.Debug("index expansion failed", "path", root, "error", idxErr)
					sources = append(sources, scanner.FileSource{Path: root})
					continue
				}
				sources = append(sources, expanded...)
				continue
			}
			sources = append(sources, scanner.FileSource{Path: root})
			continue
		}
		walkErr := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() {
				return nil //nolint:nilerr // unreadable entries are skipped, not fatal
			}
			sources = append(sources, scanner.FileSource{Path: path})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
		}
	}

	e.logger.Debug("collected corpus sources", "count", len(sources))
	return sources, nil
}

// SaveModel persists a table to the models directory and catalogs it.
func (e *Engine) SaveModel(name string, t *model.Table) (string, error) {
	if err := os.MkdirAll(e.cfg.ModelsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}

	path := filepath.Join(e.cfg.ModelsDir, name+".bin")
	if err := codec.Save(t, path); err != nil {
		return "", err
	}
	e.logger.Info("model saved", "name", name, "path", path, "transitions", t.TransitionCount())

	if e.store != nil {
		err := e.store.SaveModel(&state.ModelRecord{
			Name:        name,
			FilePath:    path,
			Tag:         registry.Classify(name, t),
			Transitions: t.TransitionCount(),
			Symbols:     t.Metadata().SymbolCount,
		})
		if err != nil {
			return path, fmt.Errorf("model saved but cataloging failed: %w", err)
		}
	}
	return path, nil
}

// LoadModel reads a model by registered name or models-directory basename.
func (e *Engine) LoadModel(name string) (*model.Table, error) {
	if m, ok := e.registry.Get(name); ok {
		return m.Table, nil
	}
	return codec.Load(filepath.Join(e.cfg.ModelsDir, name+".bin"))
}

// Compare loads both models and produces a full report, including the
// symmetric score and cross-model fixed points.
func (e *Engine) Compare(nameA, nameB string) (*ComparisonReport, error) {
	a, err := e.LoadModel(nameA)
	if err != nil {
		return nil, err
	}
	b, err := e.LoadModel(nameB)
	if err != nil {
		return nil, err
	}

	report := &ComparisonReport{
		Report:      *compare.Compare(nameA, nameB, a, b),
		Jaccard:     compare.Jaccard(a, b),
		FixedPoints: compare.CrossModelFixedPoints(a, b, e.cfg.Epsilon),
	}
	report.SharedPatterns = compare.SharedPatterns(a, b, e.cfg.Window)

	if e.store != nil {
		err := e.store.SaveComparison(&state.ComparisonRecord{
			FromModel:      nameA,
			ToModel:        nameB,
			Score:          report.Score,
			Jaccard:        report.Jaccard,
			SharedPatterns: len(report.SharedPatterns),
		})
		if err != nil {
			return report, fmt.Errorf("comparison computed but saving failed: %w", err)
		}
	}
	return report, nil
}

// ComparisonReport extends the pairwise report with the symmetric score and
// frequency-stable transitions.
type ComparisonReport struct {
	compare.Report
	Jaccard     float64
	FixedPoints []compare.FixedPoint
}

// Generate walks the named model greedily from start.
func (e *Engine) Generate(name string, start model.Symbol, maxLen int) (string, error) {
	t, err := e.LoadModel(name)
	if err != nil {
		return "", err
	}
	return generate.Text(t, start, maxLen), nil
}

// FixedPoints returns the named model's dominant self-loop symbols.
func (e *Engine) FixedPoints(name string) ([]model.Symbol, error) {
	t, err := e.LoadModel(name)
	if err != nil {
		return nil, err
	}
	return generate.FixedPoints(t, e.cfg.SelfLoopThreshold), nil
}
