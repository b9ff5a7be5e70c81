// Package file loads the application configuration from a TOML file.
// Absent file or absent keys fall back to defaults, so a fresh install
// works with no configuration at all.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DefaultConfigDir is the directory under the user home that holds
// config.toml and session data.
const DefaultConfigDir = ".docchat"

// Config is the full application configuration.
type Config struct {
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Rerank    RerankConfig    `toml:"rerank"`
	Storage   StorageConfig   `toml:"storage"`
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// ChunkingConfig configures the splitter.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	CSVGroupSize int `toml:"csv_group_size"`
}

// RetrievalConfig configures the retriever.
type RetrievalConfig struct {
	Mode          string     `toml:"mode"`
	KVector       int        `toml:"k_vector"`
	KBM25         int        `toml:"k_bm25"`
	KFinal        int        `toml:"k_final"`
	FusionWeights [2]float64 `toml:"fusion_weights"`
}

// RerankConfig configures the optional cross-encoder stage.
type RerankConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// StorageConfig configures session persistence.
type StorageConfig struct {
	BaseDir string `toml:"base_dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.2",
			MaxTokens:      1024,
			Temperature:    0.2,
			TimeoutSeconds: 120,
		},
		Embedding: EmbeddingConfig{
			BaseURL:    "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			CSVGroupSize: 2,
		},
		Retrieval: RetrievalConfig{
			Mode:          string(domain.ModeHybrid),
			KVector:       5,
			KBM25:         5,
			KFinal:        5,
			FusionWeights: [2]float64{0.5, 0.5},
		},
		Rerank: RerankConfig{
			Enabled: false,
			BaseURL: "http://localhost:8080",
			Model:   "bge-reranker-base",
		},
	}
}

// DefaultPath returns ~/.docchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, "config.toml"), nil
}

// Load reads the configuration at path. A missing file yields defaults;
// present keys override defaults, absent keys keep them.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("chunking.chunk_overlap must be non-negative, got %d", c.Chunking.ChunkOverlap)
	}
	if c.Chunking.CSVGroupSize <= 0 {
		return fmt.Errorf("chunking.csv_group_size must be positive, got %d", c.Chunking.CSVGroupSize)
	}

	switch domain.RetrievalMode(c.Retrieval.Mode) {
	case domain.ModeDense, domain.ModeHybrid:
	default:
		return fmt.Errorf("retrieval.mode must be %q or %q, got %q",
			domain.ModeDense, domain.ModeHybrid, c.Retrieval.Mode)
	}

	for i, w := range c.Retrieval.FusionWeights {
		if w < 0 {
			return fmt.Errorf("retrieval.fusion_weights[%d] must be non-negative, got %v", i, w)
		}
	}
	if c.Retrieval.FusionWeights[0]+c.Retrieval.FusionWeights[1] == 0 {
		return fmt.Errorf("retrieval.fusion_weights must not both be zero")
	}

	if c.Retrieval.KVector <= 0 || c.Retrieval.KBM25 <= 0 || c.Retrieval.KFinal <= 0 {
		return fmt.Errorf("retrieval depths must be positive, got k_vector=%d k_bm25=%d k_final=%d",
			c.Retrieval.KVector, c.Retrieval.KBM25, c.Retrieval.KFinal)
	}

	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds must be non-negative, got %d", c.LLM.TimeoutSeconds)
	}
	return nil
}

// SessionsDir returns the configured session base directory, defaulting
// to ~/.docchat/sessions.
func (c Config) SessionsDir() (string, error) {
	if c.Storage.BaseDir != "" {
		return c.Storage.BaseDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, "sessions"), nil
}

// RetrievalSettings converts the config section into domain settings.
func (c Config) RetrievalSettings() domain.RetrievalConfig {
	rc := domain.RetrievalConfig{
		Mode:          domain.RetrievalMode(c.Retrieval.Mode),
		KVector:       c.Retrieval.KVector,
		KBM25:         c.Retrieval.KBM25,
		KFinal:        c.Retrieval.KFinal,
		FusionWeights: c.Retrieval.FusionWeights,
		RerankEnabled: c.Rerank.Enabled,
	}
	return rc.Normalise()
}
