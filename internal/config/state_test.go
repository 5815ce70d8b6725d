package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateMissingFile(t *testing.T) {
	state := LoadState(filepath.Join(t.TempDir(), "state.yaml"))
	assert.Equal(t, DefaultCollectionName, state.CollectionName)
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	require.NoError(t, SaveState(path, &State{CollectionName: "work"}))
	assert.Equal(t, "work", LoadState(path).CollectionName)

	// Blank names normalize to the default on write.
	require.NoError(t, SaveState(path, &State{CollectionName: "   "}))
	assert.Equal(t, DefaultCollectionName, LoadState(path).CollectionName)
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	state := LoadState(path)
	assert.Equal(t, DefaultCollectionName, state.CollectionName)
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"embedding:\n  provider: openai\n  openai_api_key: k\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.OpenAIModel)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, "http://127.0.0.1:6333", cfg.Qdrant.URL)
	assert.EqualValues(t, DefaultMaxFileSizeBytes, cfg.Ingest.MaxFileSizeBytes)
	assert.Equal(t, 10, cfg.Search.DefaultTopK)
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, IsConfigNotFound(err))
}

func TestValidateRejectsMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Error(t, cfg.Validate())
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Equal(t, "env-key", cfg.Embedding.OpenAIAPIKey)
	assert.NoError(t, cfg.Validate())
}
