package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[llm]
model = "mistral"

[chunking]
chunk_size = 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 500, cfg.Chunking.ChunkSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().LLM.BaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, Default().Chunking.ChunkOverlap, cfg.Chunking.ChunkOverlap)
}

func TestLoad_FullRetrievalSection(t *testing.T) {
	path := writeConfig(t, `
[retrieval]
mode = "dense"
k_vector = 10
k_bm25 = 8
k_final = 3
fusion_weights = [0.7, 0.3]

[rerank]
enabled = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	settings := cfg.RetrievalSettings()
	assert.Equal(t, domain.ModeDense, settings.Mode)
	assert.Equal(t, 10, settings.KVector)
	assert.Equal(t, 3, settings.KFinal)
	assert.Equal(t, [2]float64{0.7, 0.3}, settings.FusionWeights)
	assert.True(t, settings.RerankEnabled)
}

func TestRetrievalSettings_NormalisesZeroValues(t *testing.T) {
	var cfg Config

	settings := cfg.RetrievalSettings()
	assert.Equal(t, domain.ModeHybrid, settings.Mode)
	assert.Equal(t, 5, settings.KVector)
	assert.Equal(t, 5, settings.KBM25)
	assert.Equal(t, 5, settings.KFinal)
	assert.Equal(t, [2]float64{0.5, 0.5}, settings.FusionWeights)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "not [valid toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.Chunking.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.Chunking.ChunkOverlap = -1 }},
		{"zero group size", func(c *Config) { c.Chunking.CSVGroupSize = 0 }},
		{"unknown mode", func(c *Config) { c.Retrieval.Mode = "sparse" }},
		{"negative weight", func(c *Config) { c.Retrieval.FusionWeights[0] = -0.5 }},
		{"zero weights", func(c *Config) { c.Retrieval.FusionWeights = [2]float64{0, 0} }},
		{"zero k_final", func(c *Config) { c.Retrieval.KFinal = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestSessionsDir_UsesConfiguredBase(t *testing.T) {
	cfg := Default()
	cfg.Storage.BaseDir = "/tmp/docchat-sessions"

	dir, err := cfg.SessionsDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/docchat-sessions", dir)
}
