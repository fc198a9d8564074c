package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charkov/charkov/internal/state"
	"github.com/charkov/charkov/pkg/codec"
)

// DiscoveryResult contains statistics about a models-directory scan.
type DiscoveryResult struct {
	Total      int
	Registered int
	// Errors holds per-file failures; discovery continues past them.
	Errors []DiscoveryError
	// Removed counts catalog entries whose backing file no longer exists.
	Removed  int
	Duration time.Duration
}

// DiscoveryError is one non-fatal per-model failure.
type DiscoveryError struct {
	Path    string
	Message string
}

// HasErrors reports whether any model failed to load.
func (r *DiscoveryResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable one-liner.
func (r *DiscoveryResult) Summary() string {
	return fmt.Sprintf("Models: %d total (%d registered, %d failed, %d removed) | Duration: %s",
		r.Total, r.Registered, len(r.Errors), r.Removed, r.Duration.Round(time.Millisecond))
}

// Discover walks the models directory, decodes every *.bin file, and
// registers it under its basename. A model that fails to decode is recorded
// in the result and skipped; it is never registered as an empty table.
// Catalog entries for deleted files are cleaned up when a store is open.
func (e *Engine) Discover() (*DiscoveryResult, error) {
	start := time.Now()
	result := &DiscoveryResult{}

	if e.cfg.ModelsDir == "" {
		return nil, fmt.Errorf("no models directory configured")
	}
	if _, err := os.Stat(e.cfg.ModelsDir); os.IsNotExist(err) {
		result.Duration = time.Since(start)
		return result, nil // nothing persisted yet
	}

	e.logger.Info("starting model discovery", "models_dir", e.cfg.ModelsDir)

	seen := make(map[string]bool)
	err := filepath.Walk(e.cfg.ModelsDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil || info.IsDir() || !strings.HasSuffix(info.Name(), ".bin") {
			return nil //nolint:nilerr // skip directories and non-model files
		}

		result.Total++
		name := strings.TrimSuffix(info.Name(), ".bin")
		seen[name] = true

		table, loadErr := codec.Load(path)
		if loadErr != nil {
			e.logger.Debug("model load error", "path", path, "error", loadErr.Error())
			result.Errors = append(result.Errors, DiscoveryError{Path: path, Message: loadErr.Error()})
			return nil // continue with other models
		}

		if regErr := e.registry.Register(name, table); regErr != nil {
			result.Errors = append(result.Errors, DiscoveryError{Path: path, Message: regErr.Error()})
			return nil
		}

		if e.store != nil {
			m, _ := e.registry.Get(name)
			saveErr := e.store.SaveModel(&state.ModelRecord{
				Name:        name,
				FilePath:    path,
				Tag:         m.Tag,
				Transitions: table.TransitionCount(),
				Symbols:     table.Observations(),
			})
			if saveErr != nil {
				result.Errors = append(result.Errors, DiscoveryError{Path: path, Message: saveErr.Error()})
				return nil
			}
		}

		e.logger.Debug("registered model", "name", name, "transitions", table.TransitionCount())
		result.Registered++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("model discovery failed: %w", err)
	}

	if e.store != nil {
		result.Removed = e.cleanupDeletedModels(seen)
	}

	result.Duration = time.Since(start)
	e.logger.Info("discovery completed",
		"total", result.Total,
		"registered", result.Registered,
		"failed", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// cleanupDeletedModels removes catalog entries for models no longer on disk.
func (e *Engine) cleanupDeletedModels(seen map[string]bool) int {
	records, err := e.store.ListModels()
	if err != nil {
		return 0
	}
	removed := 0
	for _, rec := range records {
		if !seen[rec.Name] {
			_ = e.store.DeleteModelByName(rec.Name)
			removed++
		}
	}
	return removed
}
