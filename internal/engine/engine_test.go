package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charkov/charkov/internal/testutil"
	"github.com/charkov/charkov/pkg/codec"
	"github.com/charkov/charkov/pkg/model"
)

func newTestEngine(t *testing.T, corpusRoots ...string) *Engine {
	t.Helper()
	dir := t.TempDir()
	e, err := New(Config{
		CorpusRoots: corpusRoots,
		ModelsDir:   filepath.Join(dir, "models"),
		StatePath:   filepath.Join(dir, ".charkov", "state.db"),
		Logger:      testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestEngine_BuildCorpus(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{"a.txt": "aab", "b.txt": "aac"})
	e := newTestEngine(t, corpus)

	result, err := e.BuildCorpus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, uint32(2), result.Table.Count('a', 'a'))
	assert.Equal(t, 3, result.Table.TransitionCount())
}

func TestEngine_BuildCorpus_IndexRoot(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{"a.txt": "zq"})

	idx := filepath.Join(t.TempDir(), "corpus.idx")
	require.NoError(t, os.WriteFile(idx, []byte(filepath.Join(corpus, "a.txt")+"\n"), 0o644))

	e := newTestEngine(t, idx)
	result, err := e.BuildCorpus(context.Background())
	require.NoError(t, err)

	// The listed file is ingested, not the index's own text.
	assert.Equal(t, 1, result.Scanned)
	assert.True(t, result.Table.Has('z', 'q'))
	assert.False(t, result.Table.HasFrom('/'))
}

func TestEngine_BuildCorpus_MissingIndexSkipped(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{"a.txt": "ab"})
	e := newTestEngine(t, corpus, filepath.Join(t.TempDir(), "gone.idx"))

	result, err := e.BuildCorpus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Scanned)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Name, "gone.idx")
}

func TestEngine_BuildCorpus_NoRoots(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.BuildCorpus(context.Background())
	assert.Error(t, err)
}

func TestEngine_SaveAndLoadModel(t *testing.T) {
	e := newTestEngine(t)

	tbl := model.New()
	tbl.IngestString("xyxy")

	path, err := e.SaveModel("test", tbl)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := e.LoadModel("test")
	require.NoError(t, err)
	assert.True(t, tbl.Equal(loaded))
}

func TestEngine_Discover(t *testing.T) {
	e := newTestEngine(t)

	good := model.New()
	good.IngestString("hello world")
	_, err := e.SaveModel("good", good)
	require.NoError(t, err)

	result, err := e.Discover()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Registered)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 1, e.Registry().Len())
}

func TestEngine_Discover_CorruptModelSkipped(t *testing.T) {
	e := newTestEngine(t)

	good := model.New()
	good.IngestString("abc")
	_, err := e.SaveModel("good", good)
	require.NoError(t, err)

	// A file whose header declares more records than its body holds.
	require.NoError(t, os.WriteFile(
		filepath.Join(e.cfg.ModelsDir, "corrupt.bin"),
		[]byte{0xFF, 0x00, 0x00, 0x00}, 0o644))

	result, err := e.Discover()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Registered)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Path, "corrupt.bin")

	// The corrupt model must not appear as an empty table.
	_, ok := e.Registry().Get("corrupt")
	assert.False(t, ok)
}

func TestEngine_Discover_MissingDirIsEmpty(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Discover()
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestEngine_Discover_CleansDeletedModels(t *testing.T) {
	e := newTestEngine(t)

	tbl := model.New()
	tbl.IngestString("ab")
	path, err := e.SaveModel("gone", tbl)
	require.NoError(t, err)

	_, err = e.Discover()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	// Second discovery runs on a fresh engine sharing the same catalog.
	e2, err := New(Config{
		ModelsDir: e.cfg.ModelsDir,
		StatePath: e.cfg.StatePath,
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	defer e2.Close()

	result, err := e2.Discover()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
}

func TestEngine_Compare(t *testing.T) {
	e := newTestEngine(t)

	a := model.New()
	a.IngestString("xyx")
	b := model.New()
	b.IngestString("xyxy")
	_, err := e.SaveModel("a", a)
	require.NoError(t, err)
	_, err = e.SaveModel("b", b)
	require.NoError(t, err)

	report, err := e.Compare("a", "b")
	require.NoError(t, err)

	// Transition sets match even though counts differ.
	assert.Equal(t, 1.0, report.Score)
	assert.Equal(t, 1.0, report.Jaccard)
}

func TestEngine_Compare_MissingModel(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Compare("nope", "also-nope")
	assert.Error(t, err)
}

func TestEngine_Generate(t *testing.T) {
	e := newTestEngine(t)

	tbl := model.New()
	tbl.IngestString("aa")
	_, err := e.SaveModel("loop", tbl)
	require.NoError(t, err)

	text, err := e.Generate("loop", 'a', 5)
	require.NoError(t, err)
	assert.Equal(t, "aaaaa", text)
}

func TestEngine_FixedPoints(t *testing.T) {
	e := newTestEngine(t)

	tbl := model.New()
	for i := 0; i < 8; i++ {
		tbl.Observe('a', 'a')
	}
	tbl.Observe('a', 'b')
	tbl.Observe('a', 'b')
	_, err := e.SaveModel("loops", tbl)
	require.NoError(t, err)

	points, err := e.FixedPoints("loops")
	require.NoError(t, err)
	assert.Equal(t, []model.Symbol{'a'}, points)
}

func TestEngine_WithoutStatePath(t *testing.T) {
	dir := t.TempDir()
	e, err := New(Config{
		ModelsDir: filepath.Join(dir, "models"),
		Logger:    testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	defer e.Close()

	tbl := model.New()
	tbl.IngestString("ab")
	path, err := e.SaveModel("nostate", tbl)
	require.NoError(t, err)

	loaded, err := codec.Load(path)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(loaded))
}
