package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "./reg-docs", config.Docs.Dir)
	assert.Equal(t, 768, config.Retrieval.EmbedDimension)
	assert.Equal(t, 3, config.Retrieval.DefaultTopK)
	assert.True(t, config.Retrieval.CacheEmbeddings)
	assert.False(t, config.Retrieval.ReindexEnabled)
	assert.Equal(t, "pattern", config.Extraction.Strategy)
	assert.Equal(t, "GBP", config.Extraction.DefaultCurrency)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "gemini-embedding-001", config.Gemini.EmbedModel)
	assert.Equal(t, 4096, config.Claude.MaxTokens)

	require.NoError(t, config.Validate())
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	content := `
environment = "production"

[server]
port = 9090

[docs]
dir = "/srv/reg-docs"

[extraction]
strategy = "generative"
default_currency = "EUR"

[retrieval]
default_top_k = 5
cache_embeddings = false

[llm]
default_provider = "claude"
`
	path := filepath.Join(t.TempDir(), "refero.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/srv/reg-docs", config.Docs.Dir)
	assert.Equal(t, "generative", config.Extraction.Strategy)
	assert.Equal(t, "EUR", config.Extraction.DefaultCurrency)
	assert.Equal(t, 5, config.Retrieval.DefaultTopK)
	assert.False(t, config.Retrieval.CacheEmbeddings)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)

	// Settings the file omits keep their defaults.
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 768, config.Retrieval.EmbedDimension)
}

func TestLoadFromFileEmptyPathUsesDefaults(t *testing.T) {
	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "pattern", config.Extraction.Strategy)
}

func TestLoadFromFileMissingFileFails(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromFileInvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = ???"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	content := `
[server]
port = 9090

[docs]
dir = "/from-file"
`
	path := filepath.Join(t.TempDir(), "refero.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("REFERO_SERVER_PORT", "7070")
	t.Setenv("REFERO_DOCS_DIR", "/from-env")
	t.Setenv("REFERO_EXTRACTION_STRATEGY", "generative")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("ANTHROPIC_API_KEY", "env-claude-key")

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "/from-env", config.Docs.Dir)
	assert.Equal(t, "generative", config.Extraction.Strategy)
	assert.Equal(t, "env-gemini-key", config.Gemini.APIKey)
	assert.Equal(t, "env-claude-key", config.Claude.APIKey)
}

func TestPrefixedAPIKeyEnvBeatsProviderConvention(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "generic")
	t.Setenv("REFERO_GEMINI_API_KEY", "specific")

	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, "specific", config.Gemini.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad dimension", func(c *Config) { c.Retrieval.EmbedDimension = -1 }, "embed_dimension must be positive"},
		{"bad top_k", func(c *Config) { c.Retrieval.DefaultTopK = 0 }, "default_top_k must be at least 1"},
		{"bad strategy", func(c *Config) { c.Extraction.Strategy = "hybrid" }, "invalid extraction strategy"},
		{"bad provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }, "invalid LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
