// Package builder constructs transition tables from corpus sources, either
// sequentially or chunked across workers.
//
// Chunking is safe because merge is a pairwise sum and sources are windowed
// independently: partitioning the source list, building partial tables in
// parallel, and merging yields the same record set as one sequential pass.
package builder

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/charkov/charkov/internal/scanner"
	"github.com/charkov/charkov/pkg/model"
)

// Options configures a build.
type Options struct {
	// Workers is the number of parallel build goroutines. Zero or negative
	// selects GOMAXPROCS.
	Workers int
	// MaxSourceSize is the per-source size ceiling, passed to the scanner.
	MaxSourceSize int64
	// ByteMode treats raw bytes as symbols instead of decoding UTF-8.
	ByteMode bool
	// Reverse additionally derives the reversed (to→from) table from the
	// forward result, without re-reading any source.
	Reverse bool
	// Logger receives progress and skip diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Result carries the built table(s) and the scan outcome.
type Result struct {
	Table *model.Table
	// Reverse is the reversed-transition table, nil unless requested.
	Reverse *model.Table
	Scanned int
	Symbols uint64
	Skipped []scanner.Skip
}

// Build scans all sources and accumulates them into a single table.
// Per-source failures are skipped and reported in the result, never as an
// error; Build fails only on context cancellation.
func Build(ctx context.Context, sources []scanner.Source, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(sources) {
		workers = len(sources)
	}
	if workers <= 1 {
		result := buildChunk(ctx, sources, opts)
		if opts.Reverse {
			result.Reverse = result.Table.Reversed()
		}
		return result, nil
	}

	logger.Debug("building in parallel", "sources", len(sources), "workers", workers)

	// Contiguous partition: worker i owns sources[bounds[i]:bounds[i+1]].
	partials := make([]*Result, workers)
	g, ctx := errgroup.WithContext(ctx)
	chunkSize := (len(sources) + workers - 1) / workers
	for i := 0; i < workers; i++ {
		lo := i * chunkSize
		hi := min(lo+chunkSize, len(sources))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			partials[i] = buildChunk(ctx, sources[lo:hi], opts)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Single-threaded reduction, in partition order.
	result := &Result{Table: model.New()}
	for _, p := range partials {
		if p == nil {
			continue
		}
		result.Table.Merge(p.Table)
		result.Scanned += p.Scanned
		result.Symbols += p.Symbols
		result.Skipped = append(result.Skipped, p.Skipped...)
	}
	result.Table.SetCreatedNow()
	if opts.Reverse {
		result.Reverse = result.Table.Reversed()
	}

	logger.Info("build completed",
		"sources_scanned", result.Scanned,
		"sources_skipped", len(result.Skipped),
		"symbols", result.Symbols,
		"transitions", result.Table.TransitionCount())

	return result, nil
}

// buildChunk runs one scanner sequentially over a slice of sources.
func buildChunk(ctx context.Context, sources []scanner.Source, opts Options) *Result {
	sc := scanner.New(scanner.Options{
		MaxSourceSize: opts.MaxSourceSize,
		ByteMode:      opts.ByteMode,
		Logger:        opts.Logger,
	})

	result := &Result{Table: model.New()}
	for _, src := range sources {
		if ctx.Err() != nil {
			return result
		}
		scanned := sc.Scan([]scanner.Source{src}, result.Table)
		result.Scanned += scanned.Scanned
		result.Symbols += scanned.Symbols
		result.Skipped = append(result.Skipped, scanned.Skipped...)
	}
	result.Table.SetCreatedNow()
	return result
}
