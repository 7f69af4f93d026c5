package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Docs        DocsConfig       `toml:"docs"`
	Retrieval   RetrievalConfig  `toml:"retrieval"`
	Extraction  ExtractionConfig `toml:"extraction"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// DocsConfig locates the regulatory source documents loaded into the corpus.
type DocsConfig struct {
	Dir string `toml:"dir"` // Directory containing regulatory documents (plain text)
}

// RetrievalConfig controls the vector index and embedding behavior.
type RetrievalConfig struct {
	EmbedDimension  int    `toml:"embed_dimension"`  // Embedding vector dimensionality
	DefaultTopK     int    `toml:"default_top_k"`    // Default k for searches that omit it
	CacheEmbeddings bool   `toml:"cache_embeddings"` // Persist embeddings in Badger across restarts
	ReindexEnabled  bool   `toml:"reindex_enabled"`  // Enable scheduled corpus reindexing
	ReindexSchedule string `toml:"reindex_schedule"` // Cron schedule (with seconds) for reindex runs
}

// ExtractionConfig selects the extraction strategy and its report defaults.
type ExtractionConfig struct {
	Strategy        string `toml:"strategy"`         // "pattern" or "generative"
	DefaultCurrency string `toml:"default_currency"` // Reporting currency (default: "GBP")
	ReportingDate   string `toml:"reporting_date"`   // Reporting date stamped on generated records
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Chat model (default: "gemini-2.0-flash")
	EmbedModel  string  `toml:"embed_model"` // Embedding model (default: "gemini-embedding-001")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0 for deterministic output)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Chat model (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0 for deterministic output)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in refero.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Docs: DocsConfig{
			Dir: "./reg-docs",
		},
		Retrieval: RetrievalConfig{
			EmbedDimension:  768,
			DefaultTopK:     3,
			CacheEmbeddings: true,
			ReindexEnabled:  false,
			ReindexSchedule: "0 0 */6 * * *", // Every 6 hours
		},
		Extraction: ExtractionConfig{
			Strategy:        "pattern",
			DefaultCurrency: "GBP",
			ReportingDate:   "2026-01-31",
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (GEMINI_API_KEY or config)
			Model:       "gemini-2.0-flash",
			EmbedModel:  "gemini-embedding-001",
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0, // Extraction wants reproducible output
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// CLI flags are applied by the caller on top of the result.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REFERO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("REFERO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("REFERO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("REFERO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if dir := os.Getenv("REFERO_DOCS_DIR"); dir != "" {
		config.Docs.Dir = dir
	}
	if path := os.Getenv("REFERO_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if strategy := os.Getenv("REFERO_EXTRACTION_STRATEGY"); strategy != "" {
		config.Extraction.Strategy = strategy
	}
	if provider := os.Getenv("REFERO_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// API keys follow the providers' conventional variable names first.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("REFERO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("REFERO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Retrieval.EmbedDimension <= 0 {
		return fmt.Errorf("embed_dimension must be positive, got %d", c.Retrieval.EmbedDimension)
	}
	if c.Retrieval.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be at least 1, got %d", c.Retrieval.DefaultTopK)
	}
	switch c.Extraction.Strategy {
	case "pattern", "generative":
	default:
		return fmt.Errorf("invalid extraction strategy %q: must be 'pattern' or 'generative'", c.Extraction.Strategy)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("invalid LLM provider %q: must be 'gemini' or 'claude'", c.LLM.DefaultProvider)
	}
	return nil
}
