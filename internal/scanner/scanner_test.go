package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charkov/charkov/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScan_FileSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "aab")
	b := writeFile(t, dir, "b.txt", "aac")

	table := model.New()
	result := New(Options{}).Scan([]Source{FileSource{Path: a}, FileSource{Path: b}}, table)

	assert.Equal(t, 2, result.Scanned)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, uint64(6), result.Symbols)

	assert.Equal(t, uint32(2), table.Count('a', 'a'))
	assert.Equal(t, uint32(1), table.Count('a', 'b'))
	assert.Equal(t, uint32(1), table.Count('a', 'c'))
	assert.Equal(t, 3, table.TransitionCount())
}

func TestScan_NoPairsAcrossSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "ab")
	b := writeFile(t, dir, "b.txt", "cd")

	table := model.New()
	New(Options{}).Scan([]Source{FileSource{Path: a}, FileSource{Path: b}}, table)

	assert.False(t, table.Has('b', 'c'))
}

func TestScan_MissingFileSkipped(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "xy")

	table := model.New()
	result := New(Options{}).Scan([]Source{
		FileSource{Path: filepath.Join(dir, "missing.txt")},
		FileSource{Path: good},
	}, table)

	assert.Equal(t, 1, result.Scanned)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonUnavailable, result.Skipped[0].Reason)
	assert.True(t, table.Has('x', 'y'), "scan must continue past failed sources")
}

func TestScan_OversizedFileSkipped(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, dir, "big.txt", "this file is larger than the ceiling")
	small := writeFile(t, dir, "small.txt", "ok")

	table := model.New()
	result := New(Options{MaxSourceSize: 8}).Scan([]Source{
		FileSource{Path: big},
		FileSource{Path: small},
	}, table)

	assert.Equal(t, 1, result.Scanned)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonTooLarge, result.Skipped[0].Reason)
	assert.Equal(t, big, result.Skipped[0].Name)
}

func TestScan_NegativeCeilingDisablesLimit(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "f.txt", "a long enough body of text")

	table := model.New()
	result := New(Options{MaxSourceSize: -1}).Scan([]Source{FileSource{Path: f}}, table)

	assert.Equal(t, 1, result.Scanned)
	assert.Empty(t, result.Skipped)
}

func TestScan_BufferSource(t *testing.T) {
	table := model.New()
	result := New(Options{}).Scan([]Source{BufferSource{Label: "mem", Data: []byte("xyx")}}, table)

	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, uint32(1), table.Count('x', 'y'))
	assert.Equal(t, uint32(1), table.Count('y', 'x'))
	assert.Equal(t, []string{"mem"}, table.Metadata().Sources)
}

func TestScan_ByteMode(t *testing.T) {
	// 0xC3 0xA9 is UTF-8 for é: one rune in text mode, two symbols in byte
	// mode.
	data := []byte{0xC3, 0xA9}

	text := model.New()
	New(Options{}).Scan([]Source{BufferSource{Label: "b", Data: data}}, text)
	assert.Zero(t, text.TransitionCount())

	raw := model.New()
	New(Options{ByteMode: true}).Scan([]Source{BufferSource{Label: "b", Data: data}}, raw)
	assert.Equal(t, uint32(1), raw.Count(0xC3, 0xA9))
}

func TestScan_DirectorySkipped(t *testing.T) {
	dir := t.TempDir()

	table := model.New()
	result := New(Options{}).Scan([]Source{FileSource{Path: dir}}, table)

	assert.Zero(t, result.Scanned)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonUnavailable, result.Skipped[0].Reason)
}

func TestExpandIndex(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "aa")
	b := writeFile(t, dir, "b.txt", "bb")
	index := writeFile(t, dir, "files.txt", a+"\n\n"+b+"\n")

	sources, err := ExpandIndex(index)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, a, sources[0].Name())
	assert.Equal(t, b, sources[1].Name())
}

func TestExpandIndex_Missing(t *testing.T) {
	_, err := ExpandIndex(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
