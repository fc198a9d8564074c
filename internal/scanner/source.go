package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source is one independently scanned corpus input. Each source is windowed
// on its own; symbol pairs never span two sources.
type Source interface {
	// Name returns the descriptor recorded in model metadata and skip reports.
	Name() string
	// Open returns the source's byte stream and its size in bytes.
	// A negative size means unknown.
	Open() (io.ReadCloser, int64, error)
}

// FileSource reads a single file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open() (io.ReadCloser, int64, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to stat %s: %w", s.Path, err)
	}
	if info.IsDir() {
		return nil, -1, fmt.Errorf("%s is a directory", s.Path)
	}
	f, err := os.Open(s.Path) //nolint:gosec // G304: corpus paths come from configuration
	if err != nil {
		return nil, -1, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	return f, info.Size(), nil
}

// BufferSource serves an in-memory byte buffer under a label.
type BufferSource struct {
	Label string
	Data  []byte
}

func (s BufferSource) Name() string { return s.Label }

func (s BufferSource) Open() (io.ReadCloser, int64, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), int64(len(s.Data)), nil
}

// ExpandIndex reads a line-oriented index file (one path per line, blank
// lines ignored) and returns a FileSource per entry.
func ExpandIndex(path string) ([]Source, error) {
	f, err := os.Open(path) //nolint:gosec // G304: index path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", path, err)
	}
	defer f.Close()

	var sources []Source
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sources = append(sources, FileSource{Path: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}
	return sources, nil
}
