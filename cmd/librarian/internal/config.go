package internal

import (
	"fmt"
	"os"

	"github.com/quietriver/librarian/internal/config"
)

// LoadConfig reads configuration from configPath, or from the default
// location when configPath is empty.
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// PrintConfigExample writes a complete YAML configuration example to
// stderr.
func PrintConfigExample() {
	path, _ := config.DefaultConfigPath()

	fmt.Fprintf(os.Stderr, `Create a configuration file at %s:

# Embedding service configuration (required)
embedding:
  # Provider: "openai" | "volcengine"
  provider: openai
  openai_api_key: your-openai-api-key
  openai_model: text-embedding-3-small
  dimensions: 1536
  batch_size: 10

# Vector store configuration
qdrant:
  url: http://127.0.0.1:6333
  # api_key: your-qdrant-api-key
  # Or run without a server, storing vectors on disk:
  # path: ~/.librarian/vectors

# Ingestion limits
ingest:
  max_file_size_bytes: 52428800
  exclude:
    - "**/.git/**"
    - "**/node_modules/**"

search:
  default_top_k: 10

Usage:
  1. Create the config file
  2. Add documents: librarian add ~/notes
  3. Search: librarian search "your query"
`, path)
}
