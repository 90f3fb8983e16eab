package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the indexer and reporter.
type Config struct {
	Region                  string `yaml:"region"`
	Profile                 string `yaml:"profile"`
	BedrockModelID          string `yaml:"bedrock_model_id"` // generation model, accepted but not used by the pipeline
	BedrockEmbeddingModelID string `yaml:"bedrock_embedding_model_id"`
	OpenSearchEndpoint      string `yaml:"opensearch_endpoint"`
	IndexName               string `yaml:"index_name"`
	LocalDownloadPath       string `yaml:"local_download_path"`

	Loader   LoaderConfig   `yaml:"loader"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoaderConfig controls which local files are picked up.
type LoaderConfig struct {
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
	Recursive bool     `yaml:"recursive"`
}

// ChunkingConfig holds text splitting parameters.
type ChunkingConfig struct {
	MaxChars int `yaml:"max_chars"`
	Overlap  int `yaml:"overlap"`
}

// IngestConfig holds indexing configuration.
type IngestConfig struct {
	BatchSize    int    `yaml:"batch_size"`
	ManifestPath string `yaml:"manifest_path"` // empty disables the incremental-skip manifest
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Region:                  "us-east-1",
		BedrockEmbeddingModelID: "amazon.titan-embed-text-v2:0",
		LocalDownloadPath:       "data/",
		Loader: LoaderConfig{
			Includes:  []string{"**/*.txt"},
			Excludes:  []string{"**/.git/**"},
			Recursive: true,
		},
		Chunking: ChunkingConfig{
			MaxChars: 300,
			Overlap:  30,
		},
		Ingest: IngestConfig{
			BatchSize:    100,
			ManifestPath: filepath.Join(".osindexer", "manifest.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for osindexer.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "osindexer.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".osindexer", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the settings required to reach the remote
// services are present and that chunking parameters can terminate.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must be set")
	}
	if c.BedrockEmbeddingModelID == "" {
		return fmt.Errorf("bedrock_embedding_model_id must be set")
	}
	if c.OpenSearchEndpoint == "" {
		return fmt.Errorf("opensearch_endpoint must be set")
	}
	if c.IndexName == "" {
		return fmt.Errorf("index_name must be set")
	}
	if c.Chunking.MaxChars <= 0 {
		return fmt.Errorf("chunking.max_chars must be positive, got %d", c.Chunking.MaxChars)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.MaxChars {
		return fmt.Errorf("chunking.overlap must be in [0, max_chars), got %d with max_chars %d",
			c.Chunking.Overlap, c.Chunking.MaxChars)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize)
	}
	return nil
}
