package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the swissvote tool.
type Config struct {
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IndexConfig holds brochure indexing configuration.
type IndexConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`    // Max characters per chunk
	ChunkOverlap int    `yaml:"chunk_overlap"` // Characters carried into the next chunk
	BatchSize    int    `yaml:"batch_size"`    // Chunks embedded per request
	Collection   string `yaml:"collection"`    // Vector collection name
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int      `yaml:"top_k"`
	ScoreThreshold  float64  `yaml:"score_threshold"` // Drop results below this similarity (0 = disabled)
	Languages       []string `yaml:"languages"`       // Fallback order
	DefaultLanguage string   `yaml:"default_language"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "local", "openai", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LLMConfig holds chat model configuration.
type LLMConfig struct {
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			BatchSize:    32,
			Collection:   "swiss_voting_brochures",
		},
		Retrieve: RetrieveConfig{
			TopK:            5,
			ScoreThreshold:  0,
			Languages:       []string{"de", "fr", "it"},
			DefaultLanguage: "de",
		},
		Embedding: EmbeddingConfig{
			Provider:  "local",
			Model:     "paraphrase-multilingual-mpnet-base-v2",
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "http://localhost:8080/v1",
			Dimension: 768,
			BatchSize: 100,
		},
		LLM: LLMConfig{
			APIKeyEnv:   "SWISS_AI_PLATFORM_API_KEY",
			BaseURL:     "https://api.swisscom.com/apertus/v1",
			Model:       "Apertus-70B-Instruct-2509",
			Temperature: 0.7,
			MaxTokens:   2000,
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

// LoadFromDir loads configuration from a directory (looks for swissvote.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try swissvote.yaml in the directory
	path := filepath.Join(dir, "swissvote.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .swissvote/config.yaml
	path = filepath.Join(dir, ".swissvote", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
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

// MetadataDBPath returns the path to the initiative metadata database.
func MetadataDBPath(dir string) string {
	return filepath.Join(dir, ".swissvote", "initiatives.db")
}

// VectorDBPath returns the path to the vector database.
func VectorDBPath(dir string) string {
	return filepath.Join(dir, ".swissvote", "vectors.db")
}

// EnsureDataDir ensures the .swissvote directory exists.
func EnsureDataDir(dir string) error {
	dataDir := filepath.Join(dir, ".swissvote")
	return os.MkdirAll(dataDir, 0755)
}
