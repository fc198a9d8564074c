// Package scanner turns corpus sources (files, buffers, index files) into
// per-source symbol streams.
//
// Scanning is best-effort: an unreadable or oversized source is logged,
// recorded in the result's skip list, and scanning continues with the next
// source. Only the aggregate result reports failures; no per-source error
// aborts a scan.
package scanner

import (
	"bufio"
	"errors"
	"io"
	"log/slog"

	"github.com/charkov/charkov/pkg/model"
)

// DefaultMaxSourceSize is the per-source size ceiling applied when the
// configuration does not set one: 10 MiB.
const DefaultMaxSourceSize = 10 << 20

// Skip reasons recorded in scan results.
const (
	ReasonUnavailable = "source_unavailable"
	ReasonTooLarge    = "source_too_large"
)

// Skip records one source that could not be scanned.
type Skip struct {
	Name   string
	Reason string
	Err    error
}

// Result aggregates the outcome of scanning a source list.
type Result struct {
	Scanned int
	Symbols uint64
	Skipped []Skip
}

// Scanner streams symbols out of corpus sources.
type Scanner struct {
	maxSize  int64
	byteMode bool
	logger   *slog.Logger
}

// Options configures a Scanner.
type Options struct {
	// MaxSourceSize is the per-source byte ceiling; sources larger than this
	// are skipped. Zero applies DefaultMaxSourceSize; negative disables the
	// ceiling.
	MaxSourceSize int64
	// ByteMode treats each raw byte as a symbol instead of decoding UTF-8.
	ByteMode bool
	// Logger receives skip diagnostics. Nil discards them.
	Logger *slog.Logger
}

// New creates a scanner.
func New(opts Options) *Scanner {
	maxSize := opts.MaxSourceSize
	if maxSize == 0 {
		maxSize = DefaultMaxSourceSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{maxSize: maxSize, byteMode: opts.ByteMode, logger: logger}
}

// EachSymbol streams the symbols of a single source through fn in order.
// The source is read incrementally; it is never buffered whole.
func (s *Scanner) EachSymbol(src Source, fn func(model.Symbol)) error {
	rc, size, err := src.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if s.maxSize > 0 && size > s.maxSize {
		return &TooLargeError{Name: src.Name(), Size: size, Limit: s.maxSize}
	}

	r := bufio.NewReader(rc)
	if s.byteMode {
		for {
			b, err := r.ReadByte()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			fn(model.Symbol(b))
		}
	}
	for {
		ch, _, err := r.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fn(model.Symbol(ch))
	}
}

// Scan ingests every source into table, one source at a time, windowing each
// source independently. A source that fails mid-read contributes nothing:
// each source is staged in its own table and merged only on success. Failed
// sources are skipped and accumulated in the result; Scan itself never fails.
func (s *Scanner) Scan(sources []Source, table *model.Table) *Result {
	result := &Result{}
	for _, src := range sources {
		staged := model.New()
		prev := model.Symbol(-1)
		first := true
		count := uint64(0)

		err := s.EachSymbol(src, func(sym model.Symbol) {
			if !first {
				staged.Observe(prev, sym)
			}
			prev = sym
			first = false
			count++
		})
		if err != nil {
			reason := ReasonUnavailable
			var tooLarge *TooLargeError
			if errors.As(err, &tooLarge) {
				reason = ReasonTooLarge
			}
			s.logger.Debug("skipping source", "source", src.Name(), "reason", reason, "error", err)
			result.Skipped = append(result.Skipped, Skip{Name: src.Name(), Reason: reason, Err: err})
			continue
		}

		staged.RecordSource(src.Name())
		staged.AddSymbolCount(count)
		table.Merge(staged)
		result.Scanned++
		result.Symbols += count
	}
	return result
}
