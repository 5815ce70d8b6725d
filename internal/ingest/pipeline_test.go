package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	chunks []Chunk
	err    error
}

func (s *captureSink) Add(ctx context.Context, chunks []Chunk) error {
	if s.err != nil {
		return s.err
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestTextFile(t *testing.T) {
	sink := &captureSink{}
	p := NewPipeline(sink)

	path := writeFile(t, t.TempDir(), "notes.txt", "a small note about qdrant")
	chunks, err := p.Ingest(context.Background(), path, map[string]any{"hash_id": "abc"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "a small note about qdrant", chunks[0].Content)
	assert.Equal(t, "abc", chunks[0].Metadata["hash_id"])
	assert.Equal(t, "notes.txt", chunks[0].Metadata["source"])
	assert.Equal(t, chunks, sink.chunks, "returned chunks must be what was written")
}

func TestIngestExtraMetadataWins(t *testing.T) {
	sink := &captureSink{}
	p := NewPipeline(sink)

	path := writeFile(t, t.TempDir(), "notes.txt", "content")
	chunks, err := p.Ingest(context.Background(), path, map[string]any{
		"hash_id": "abc",
		"source":  "overridden",
	})
	require.NoError(t, err)
	assert.Equal(t, "overridden", chunks[0].Metadata["source"])
}

func TestIngestUnknownSuffixFallsBackToText(t *testing.T) {
	sink := &captureSink{}
	p := NewPipeline(sink)

	path := writeFile(t, t.TempDir(), "data.conf", "key = value")
	chunks, err := p.Ingest(context.Background(), path, map[string]any{"hash_id": "abc"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "key = value", chunks[0].Content)
}

func TestIngestMarkdownHeaderMetadata(t *testing.T) {
	sink := &captureSink{}
	p := NewPipeline(sink)

	path := writeFile(t, t.TempDir(), "guide.md",
		"# Setup\n\nfirst part\n\n## Advanced\n\nsecond part\n")
	chunks, err := p.Ingest(context.Background(), path, map[string]any{"hash_id": "abc"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "first part", chunks[0].Content)
	assert.Equal(t, "Setup", chunks[0].Metadata["header_1"])
	assert.Equal(t, "second part", chunks[1].Content)
	assert.Equal(t, "Advanced", chunks[1].Metadata["header_2"])
	for _, c := range chunks {
		assert.Equal(t, "abc", c.Metadata["hash_id"])
		assert.Equal(t, "guide.md", c.Metadata["source"])
	}
}

func TestIngestBadEncodingDropped(t *testing.T) {
	sink := &captureSink{}
	p := NewPipeline(sink)

	dir := t.TempDir()
	path := filepath.Join(dir, "weird.txt")
	require.NoError(t, os.WriteFile(path, []byte("good \xff\xfe text"), 0o644))

	chunks, err := p.Ingest(context.Background(), path, map[string]any{"hash_id": "abc"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "good  text", chunks[0].Content)
}

func TestIngestMissingFileIsLoadError(t *testing.T) {
	p := NewPipeline(&captureSink{})

	_, err := p.Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), nil)
	require.Error(t, err)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestIngestSinkFailurePropagates(t *testing.T) {
	sink := &captureSink{err: errors.New("qdrant down")}
	p := NewPipeline(sink)

	path := writeFile(t, t.TempDir(), "notes.txt", "content")
	_, err := p.Ingest(context.Background(), path, map[string]any{"hash_id": "abc"})
	require.ErrorContains(t, err, "qdrant down")
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "ignore.bin", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", ".git"), 0o755))
	writeFile(t, filepath.Join(dir, "sub"), "c.pdf", "not really a pdf")
	writeFile(t, filepath.Join(dir, "sub", ".git"), "d.txt", "hidden")

	files, err := DiscoverFiles(dir, []string{"**/.git/**", ".git"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.txt", "b.md", "sub/c.pdf"}, names)
}
