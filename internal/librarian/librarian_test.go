package librarian

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietriver/librarian/internal/config"
	"github.com/quietriver/librarian/internal/embedding"
	"github.com/quietriver/librarian/internal/vectorstore"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 1, 1}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 1, 1}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int { return 3 }

func newTestLibrarian(t *testing.T, cfg *config.Config) *Librarian {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	backend, err := vectorstore.NewLocalBackend(filepath.Join(root, "vectors"))
	require.NoError(t, err)

	embedder := embedding.NewServiceWithClient(&config.EmbeddingConfig{BatchSize: 10}, stubEmbedder{})
	lib, err := New(context.Background(), Options{
		Config:    cfg,
		Backend:   backend,
		Embedder:  embedder,
		StatePath: filepath.Join(root, "state.yaml"),
		DataDir:   dataDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collect(seq func(func(Outcome) bool)) []Outcome {
	var out []Outcome
	seq(func(o Outcome) bool {
		out = append(out, o)
		return true
	})
	return out
}

func TestAddFileAndList(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	path := writeFile(t, t.TempDir(), "notes.txt", "a few words about gardening")

	outcomes := collect(lib.AddByPath(context.Background(), path))
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusAdded, outcomes[0].Status)
	assert.NoError(t, outcomes[0].Err)

	files, err := lib.FindAll()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].FileName)
	assert.Len(t, files[0].HashID, 64)

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddIsIdempotentOnContent(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	dir := t.TempDir()
	first := writeFile(t, dir, "original.txt", "identical content")
	second := writeFile(t, dir, "renamed.txt", "identical content")

	outcomes := collect(lib.AddByPath(context.Background(), first))
	require.Equal(t, StatusAdded, outcomes[0].Status)

	// Same bytes under a different name dedupe on the content hash.
	outcomes = collect(lib.AddByPath(context.Background(), second))
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusSkipped, outcomes[0].Status)
	assert.ErrorContains(t, outcomes[0].Err, "already in collection")

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddDirectoryClassifiesOutcomes(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ingest.MaxFileSizeBytes = 64
	lib := newTestLibrarian(t, cfg)

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "short enough to ingest")
	writeFile(t, dir, "big.txt", strings.Repeat("x", 200))
	writeFile(t, dir, "empty.txt", "")

	outcomes := collect(lib.AddByPath(context.Background(), dir))
	require.Len(t, outcomes, 3)

	assert.Equal(t, StatusAdded, outcomes[0].Status)
	assert.Equal(t, "a.txt", filepath.Base(outcomes[0].Path))

	assert.Equal(t, StatusSkipped, outcomes[1].Status)
	assert.ErrorIs(t, outcomes[1].Err, ErrTooLarge)

	assert.Equal(t, StatusError, outcomes[2].Status)
	assert.ErrorContains(t, outcomes[2].Err, "no chunkable text")

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddStopsWhenIterationAbandoned(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "first file")
	writeFile(t, dir, "b.txt", "second file")

	seen := 0
	lib.AddByPath(context.Background(), dir)(func(o Outcome) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen)

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRemoveRoundTrip(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	path := writeFile(t, t.TempDir(), "notes.txt", "remove me and add me back")
	collect(lib.AddByPath(context.Background(), path))

	files, err := lib.FindAll()
	require.NoError(t, err)
	require.Len(t, files, 1)

	removed, err := lib.Remove(context.Background(), files[0].HashID[:10], "")
	require.NoError(t, err)
	assert.True(t, removed)

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	results, err := lib.Search(context.Background(), "remove me", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	// The content is addable again after removal.
	outcomes := collect(lib.AddByPath(context.Background(), path))
	assert.Equal(t, StatusAdded, outcomes[0].Status)
}

func TestRemoveAmbiguousDeletesNothing(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	dir := t.TempDir()
	collect(lib.AddByPath(context.Background(), writeFile(t, dir, "one.txt", "first document")))
	collect(lib.AddByPath(context.Background(), writeFile(t, dir, "two.txt", "second document")))

	removed, err := lib.Remove(context.Background(), "", ".txt")
	assert.False(t, removed)
	require.ErrorIs(t, err, ErrAmbiguous)

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestRemoveRequiresFilter(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	_, err := lib.Remove(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoFilter)

	_, err = lib.Find("", "")
	assert.ErrorIs(t, err, ErrNoFilter)
}

func TestRemoveNoMatch(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	removed, err := lib.Remove(context.Background(), "deadbeef", "")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSwitchCollectionIsolation(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	assert.Equal(t, config.DefaultCollectionName, lib.CurrentCollection())

	path := writeFile(t, t.TempDir(), "shared.txt", "content in the default collection")
	collect(lib.AddByPath(context.Background(), path))

	require.NoError(t, lib.SwitchCollection(context.Background(), "research"))
	assert.Equal(t, "research", lib.CurrentCollection())

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Same content is insertable into a different collection.
	outcomes := collect(lib.AddByPath(context.Background(), path))
	assert.Equal(t, StatusAdded, outcomes[0].Status)

	require.NoError(t, lib.SwitchCollection(context.Background(), config.DefaultCollectionName))
	count, err = lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSwitchCollectionRestoresPreviousOnOpenFailure(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	statePath := filepath.Join(root, "state.yaml")

	backend, err := vectorstore.NewLocalBackend(filepath.Join(root, "vectors"))
	require.NoError(t, err)
	embedder := embedding.NewServiceWithClient(&config.EmbeddingConfig{BatchSize: 10}, stubEmbedder{})
	lib, err := New(context.Background(), Options{
		Config:    &config.Config{},
		Backend:   backend,
		Embedder:  embedder,
		StatePath: statePath,
		DataDir:   dataDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })

	path := writeFile(t, t.TempDir(), "keep.txt", "survives a failed switch")
	collect(lib.AddByPath(context.Background(), path))

	// A directory where the index file should go makes the open fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "broken.db"), 0o755))

	err = lib.SwitchCollection(context.Background(), "broken")
	require.Error(t, err)

	assert.Equal(t, config.DefaultCollectionName, lib.CurrentCollection())
	assert.Equal(t, config.DefaultCollectionName, NewManager(statePath).CurrentName())

	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCollectionsInfo(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	dir := t.TempDir()
	collect(lib.AddByPath(context.Background(), writeFile(t, dir, "one.txt", "first document")))
	collect(lib.AddByPath(context.Background(), writeFile(t, dir, "two.txt", "second document")))

	require.NoError(t, lib.SwitchCollection(context.Background(), "research"))
	collect(lib.AddByPath(context.Background(), writeFile(t, dir, "three.txt", "third document")))

	info, err := lib.CollectionsInfo()
	require.NoError(t, err)
	assert.EqualValues(t, 2, info[config.DefaultCollectionName])
	assert.EqualValues(t, 1, info["research"])
}

func TestSwitchCollectionRejectsBadName(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	err := lib.SwitchCollection(context.Background(), "../escape")
	require.Error(t, err)
	assert.Equal(t, config.DefaultCollectionName, lib.CurrentCollection())
}

func TestDropResetsToDefault(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	require.NoError(t, lib.SwitchCollection(context.Background(), "scratch"))

	path := writeFile(t, t.TempDir(), "scratch.txt", "short lived content")
	collect(lib.AddByPath(context.Background(), path))

	require.NoError(t, lib.Drop(context.Background()))
	assert.Equal(t, config.DefaultCollectionName, lib.CurrentCollection())

	require.NoError(t, lib.SwitchCollection(context.Background(), "scratch"))
	count, err := lib.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	results, err := lib.Search(context.Background(), "short lived", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchReturnsIngestedContent(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	path := writeFile(t, t.TempDir(), "notes.txt", "the quick brown fox")
	collect(lib.AddByPath(context.Background(), path))

	results, err := lib.Search(context.Background(), "fox", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "the quick brown fox", results[0].Content)
	assert.Equal(t, "notes.txt", results[0].Metadata["file_name"])
}

func TestAddMissingPath(t *testing.T) {
	lib := newTestLibrarian(t, nil)
	outcomes := collect(lib.AddByPath(context.Background(), filepath.Join(t.TempDir(), "absent.txt")))
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	var pathErr *os.PathError
	assert.True(t, errors.As(outcomes[0].Err, &pathErr))
}
