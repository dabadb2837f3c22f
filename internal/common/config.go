package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	LLM         LLMConfig        `toml:"llm"`
	Geocode     GeocodeConfig    `toml:"geocode"`
	Processing  ProcessingConfig `toml:"processing"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path               string `toml:"path"`                // Database file path
	CacheSizeMB        int    `toml:"cache_size_mb"`       // Page cache size in MB
	BusyTimeoutMS      int    `toml:"busy_timeout_ms"`     // Busy timeout in milliseconds
	WALMode            bool   `toml:"wal_mode"`            // Enable WAL journal mode
	MaxOpenConns       int    `toml:"max_open_conns"`      // Connection pool size
	EmbeddingDimension int    `toml:"embedding_dimension"` // Stored embedding vector dimension
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMConfig contains language model and embedding settings
type LLMConfig struct {
	Provider        string  `toml:"provider"`          // "gemini" (default) or "claude"
	GoogleAPIKey    string  `toml:"google_api_key"`    // Gemini API key (env: CLIMATELENS_LLM_GOOGLE_API_KEY)
	AnthropicAPIKey string  `toml:"anthropic_api_key"` // Claude API key (env: CLIMATELENS_LLM_ANTHROPIC_API_KEY)
	ChatModelName   string  `toml:"chat_model_name"`   // Model for classification and generation
	EmbedModelName  string  `toml:"embed_model_name"`  // Model for embeddings (Gemini only)
	EmbedDimension  int     `toml:"embed_dimension"`   // Embedding output dimensionality
	Timeout         string  `toml:"timeout"`           // Per-call timeout, e.g. "60s"
	Temperature     float32 `toml:"temperature"`
	MaxTokens       int     `toml:"max_tokens"`
}

// GeocodeConfig contains settings for the place-name resolution client
type GeocodeConfig struct {
	BaseURL           string  `toml:"base_url"`            // Nominatim-compatible search endpoint
	UserAgent         string  `toml:"user_agent"`          // Required by Nominatim usage policy
	Timeout           string  `toml:"timeout"`             // HTTP request timeout
	RequestsPerSecond float64 `toml:"requests_per_second"` // Client-side rate limit
}

// ProcessingConfig controls the embedding backfill job for report chunks
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
	Limit    int    `toml:"limit"`    // Max chunks to embed per run
}

// NewDefaultConfig returns a Config populated with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path:               "./data/climatelens.db",
				CacheSizeMB:        64,
				BusyTimeoutMS:      5000,
				WALMode:            true,
				MaxOpenConns:       10,
				EmbeddingDimension: 768,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			ChatModelName:  "gemini-2.0-flash",
			EmbedModelName: "gemini-embedding-001",
			EmbedDimension: 768,
			Timeout:        "60s",
			Temperature:    0.2,
			MaxTokens:      8192,
		},
		Geocode: GeocodeConfig{
			BaseURL:           "https://nominatim.openstreetmap.org/search",
			UserAgent:         "ClimateLens/1.0",
			Timeout:           "10s",
			RequestsPerSecond: 1,
		},
		Processing: ProcessingConfig{
			Enabled:  false,
			Schedule: "0 0 */6 * * *", // Every 6 hours
			Limit:    1000,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CLIMATELENS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("CLIMATELENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CLIMATELENS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("CLIMATELENS_SQLITE_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}

	if level := os.Getenv("CLIMATELENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CLIMATELENS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if provider := os.Getenv("CLIMATELENS_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if key := os.Getenv("CLIMATELENS_LLM_GOOGLE_API_KEY"); key != "" {
		config.LLM.GoogleAPIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.GoogleAPIKey = key
	}
	if key := os.Getenv("CLIMATELENS_LLM_ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}
	if model := os.Getenv("CLIMATELENS_LLM_CHAT_MODEL"); model != "" {
		config.LLM.ChatModelName = model
	}
	if model := os.Getenv("CLIMATELENS_LLM_EMBED_MODEL"); model != "" {
		config.LLM.EmbedModelName = model
	}

	if ua := os.Getenv("CLIMATELENS_GEOCODE_USER_AGENT"); ua != "" {
		config.Geocode.UserAgent = ua
	}
	if url := os.Getenv("CLIMATELENS_GEOCODE_BASE_URL"); url != "" {
		config.Geocode.BaseURL = url
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
