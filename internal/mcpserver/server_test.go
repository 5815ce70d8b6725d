package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietriver/librarian/internal/config"
	"github.com/quietriver/librarian/internal/embedding"
	"github.com/quietriver/librarian/internal/librarian"
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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	backend, err := vectorstore.NewLocalBackend(filepath.Join(root, "vectors"))
	require.NoError(t, err)

	embedder := embedding.NewServiceWithClient(&config.EmbeddingConfig{BatchSize: 10}, stubEmbedder{})
	lib, err := librarian.New(context.Background(), librarian.Options{
		Config:    &config.Config{},
		Backend:   backend,
		Embedder:  embedder,
		StatePath: filepath.Join(root, "state.yaml"),
		DataDir:   dataDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return New(lib, "test")
}

func addDocument(t *testing.T, s *Server, name, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	s.lib.AddByPath(context.Background(), path)(func(o librarian.Outcome) bool {
		require.Equal(t, librarian.StatusAdded, o.Status)
		return true
	})
}

func TestStatusTool(t *testing.T) {
	s := newTestServer(t)
	addDocument(t, s, "notes.txt", "a document in the default collection")

	_, out, err := s.statusTool(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCollectionName, out.CurrentCollection)
	assert.NotEmpty(t, out.DataDir)
	assert.EqualValues(t, 1, out.Collections[config.DefaultCollectionName])
}

func TestListTool(t *testing.T) {
	s := newTestServer(t)
	addDocument(t, s, "first.txt", "the first document")
	addDocument(t, s, "second.txt", "the second document")

	_, out, err := s.listTool(context.Background(), nil, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCollectionName, out.Collection)
	require.Equal(t, 2, out.Count)
	// Newest first.
	assert.Equal(t, "second.txt", out.Files[0].FileName)
	assert.Len(t, out.Files[0].HashID, 64)
	assert.NotEmpty(t, out.Files[0].CreatedAt)

	_, out, err = s.listTool(context.Background(), nil, ListInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
}

func TestSearchTool(t *testing.T) {
	s := newTestServer(t)
	addDocument(t, s, "notes.txt", "the quick brown fox")

	_, out, err := s.searchTool(context.Background(), nil, SearchInput{Query: "fox"})
	require.NoError(t, err)
	assert.Equal(t, "fox", out.Query)
	require.NotZero(t, out.Count)
	assert.Equal(t, "the quick brown fox", out.Results[0].Content)
	assert.Equal(t, "notes.txt", out.Results[0].Metadata["file_name"])
}

func TestSearchToolRequiresQuery(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.searchTool(context.Background(), nil, SearchInput{})
	assert.ErrorContains(t, err, "query is required")
}

func TestCountTool(t *testing.T) {
	s := newTestServer(t)
	addDocument(t, s, "notes.txt", "one document")

	_, out, err := s.countTool(context.Background(), nil, CountInput{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCollectionName, out.CollectionName)
	assert.EqualValues(t, 1, out.TotalCount)
}

func TestSwitchTool(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.switchTool(context.Background(), nil, SwitchInput{CollectionName: "research"})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCollectionName, out.PreviousCollection)
	assert.Equal(t, "research", out.CurrentCollection)
	assert.Contains(t, out.Message, "switched")

	_, out, err = s.switchTool(context.Background(), nil, SwitchInput{CollectionName: "research"})
	require.NoError(t, err)
	assert.Equal(t, "research", out.PreviousCollection)
	assert.Equal(t, "research", out.CurrentCollection)
	assert.Contains(t, out.Message, "already using")

	_, _, err = s.switchTool(context.Background(), nil, SwitchInput{})
	assert.ErrorContains(t, err, "collection_name is required")
}
