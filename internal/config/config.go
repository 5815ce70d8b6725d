package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Ingest    IngestConfig    `yaml:"ingest,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai" | "volcengine"

	// OpenAI specific
	OpenAIAPIKey string `yaml:"openai_api_key,omitempty"`
	OpenAIModel  string `yaml:"openai_model,omitempty"`

	// VolcEngine specific
	APIKey   string `yaml:"api_key,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`

	// Embedding parameters
	Dimensions     int    `yaml:"dimensions"`      // output width of the model
	BatchSize      int    `yaml:"batch_size"`      // batch size for embedding requests
	EncodingFormat string `yaml:"encoding_format"` // "float" | "base64"
}

// QdrantConfig holds vector store connection configuration. When Path is
// set, a local on-disk store is used instead of a Qdrant server.
type QdrantConfig struct {
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

// IngestConfig holds ingestion-specific configuration
type IngestConfig struct {
	// MaxFileSizeBytes is the ceiling enforced before a file is hashed or loaded
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes,omitempty"`
	// Exclude patterns (doublestar globs) applied during directory discovery
	Exclude []string `yaml:"exclude,omitempty"`
}

// SearchConfig holds search-specific configuration
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k,omitempty"`
}

// DefaultMaxFileSizeBytes caps ingestible files at 50 MiB
const DefaultMaxFileSizeBytes = 50 << 20

// Load loads configuration from the default config file
// Default location: ~/.librarian/config.yaml
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			defaultPath, _ := DefaultConfigPath()
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   defaultPath,
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ConfigNotFoundError is returned when config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s\n\nDefault location: %s\n\nYou can:\n"+
		"  1. Create the config file at the default location\n"+
		"  2. Specify a custom path with -config flag",
		e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks if error is config not found
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.OpenAIModel == "" {
		c.Embedding.OpenAIModel = "text-embedding-3-small"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "doubao-embedding-vision-250615"
	}
	if c.Embedding.Dimensions == 0 {
		if c.Embedding.Provider == "volcengine" {
			c.Embedding.Dimensions = 2048
		} else {
			c.Embedding.Dimensions = 1536
		}
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = 10
	}
	if c.Embedding.EncodingFormat == "" {
		c.Embedding.EncodingFormat = "float"
	}
	// API keys may come from the environment instead of the config file.
	if c.Embedding.OpenAIAPIKey == "" {
		c.Embedding.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv("ARK_API_KEY")
	}

	if c.Qdrant.Path != "" {
		c.Qdrant.Path = expandPath(c.Qdrant.Path)
	} else if c.Qdrant.URL == "" {
		c.Qdrant.URL = "http://127.0.0.1:6333"
	}

	if c.Ingest.MaxFileSizeBytes == 0 {
		c.Ingest.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}

	if c.Search.DefaultTopK == 0 {
		c.Search.DefaultTopK = 10
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.OpenAIAPIKey == "" {
			return fmt.Errorf("openai provider requires openai_api_key")
		}
	case "volcengine":
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("volcengine provider requires api_key")
		}
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}

	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive")
	}
	if c.Ingest.MaxFileSizeBytes <= 0 {
		return fmt.Errorf("max_file_size_bytes must be positive")
	}

	return nil
}

const defaultConfigTemplate = `# Librarian configuration

# Embedding service configuration (required)
embedding:
  # Provider: "openai" | "volcengine"
  provider: openai
  # May be omitted when OPENAI_API_KEY (or ARK_API_KEY for volcengine)
  # is set in the environment or a .env file.
  openai_api_key: your-openai-api-key
  openai_model: text-embedding-3-small
  dimensions: 1536
  batch_size: 10

# Qdrant vector store
qdrant:
  url: http://127.0.0.1:6333
  # api_key: your-qdrant-api-key

# Ingestion
ingest:
  max_file_size_bytes: 52428800
  exclude:
    - "**/.git/**"

search:
  default_top_k: 10
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}

	return true, nil
}
