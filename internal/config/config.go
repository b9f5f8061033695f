// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-relevance/internal/embedding"
	"github.com/jonathan/resume-relevance/internal/keywords"
)

// Config represents the configuration that can be loaded from a JSON or TOML file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	Embedding   EmbeddingConfig `json:"embedding" toml:"embedding"`
	Keywords    KeywordsConfig  `json:"keywords" toml:"keywords"`
	Batch       BatchConfig     `json:"batch" toml:"batch"`
	Fetch       FetchConfig     `json:"fetch" toml:"fetch"`
	Server      ServerConfig    `json:"server" toml:"server"`
	DatabaseURL string          `json:"database_url,omitempty" toml:"database_url" validate:"omitempty,url"`
	Verbose     bool            `json:"verbose,omitempty" toml:"verbose"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider  string          `json:"provider,omitempty" toml:"provider" validate:"omitempty,oneof=hash gemini openai"`
	Model     string          `json:"model,omitempty" toml:"model"`
	Dimension int             `json:"dimension,omitempty" toml:"dimension" validate:"gte=0,lte=8192"`
	BaseURL   string          `json:"base_url,omitempty" toml:"base_url" validate:"omitempty,url"`
	APIKey    string          `json:"api_key,omitempty" toml:"api_key"`
	CacheSize int             `json:"cache_size,omitempty" toml:"cache_size" validate:"gte=0"`
	Breaker   BreakerSettings `json:"breaker" toml:"breaker"`
}

// BreakerSettings configures the embedding circuit breaker. It is on unless Disabled.
type BreakerSettings struct {
	Disabled         bool     `json:"disabled,omitempty" toml:"disabled"`
	MaxRequests      uint32   `json:"max_requests,omitempty" toml:"max_requests"`
	Interval         Duration `json:"interval,omitempty" toml:"interval"`
	Timeout          Duration `json:"timeout,omitempty" toml:"timeout"`
	MinRequests      uint32   `json:"min_requests,omitempty" toml:"min_requests"`
	FailureThreshold float64  `json:"failure_threshold,omitempty" toml:"failure_threshold" validate:"gte=0,lte=1"`
}

// KeywordsConfig tunes keyword extraction.
type KeywordsConfig struct {
	JobLimit      int     `json:"job_limit,omitempty" toml:"job_limit" validate:"gte=0,lte=1000"`
	ResumeLimit   int     `json:"resume_limit,omitempty" toml:"resume_limit" validate:"gte=0,lte=1000"`
	BigramBoost   float64 `json:"bigram_boost,omitempty" toml:"bigram_boost" validate:"gte=0"`
	StopwordsFile string  `json:"stopwords_file,omitempty" toml:"stopwords_file"`
}

// BatchConfig controls dataset feature builds.
type BatchConfig struct {
	Workers int `json:"workers,omitempty" toml:"workers" validate:"gte=0,lte=256"`
}

// FetchConfig controls job posting ingestion.
type FetchConfig struct {
	UseBrowser bool     `json:"use_browser,omitempty" toml:"use_browser"`
	Timeout    Duration `json:"timeout,omitempty" toml:"timeout"`
	CacheTTL   Duration `json:"cache_ttl,omitempty" toml:"cache_ttl"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" toml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" toml:"allowed_origins"`
}

// Duration is a time.Duration written as a string such as "30s" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	breaker := embedding.DefaultBreakerConfig()
	return Config{
		Embedding: EmbeddingConfig{
			Provider:  string(embedding.ProviderHash),
			Dimension: embedding.DefaultHashDimension,
			CacheSize: 1024,
			Breaker: BreakerSettings{
				MaxRequests:      breaker.MaxRequests,
				Interval:         Duration{breaker.Interval},
				Timeout:          Duration{breaker.Timeout},
				MinRequests:      breaker.MinRequests,
				FailureThreshold: breaker.FailureThreshold,
			},
		},
		Keywords: KeywordsConfig{
			JobLimit:    keywords.DefaultJobKeywords,
			ResumeLimit: keywords.DefaultResumeKeywords,
			BigramBoost: keywords.DefaultBigramBoost,
		},
		Fetch: FetchConfig{
			Timeout:  Duration{30 * time.Second},
			CacheTTL: Duration{24 * time.Hour},
		},
		Server: ServerConfig{Port: 8080},
	}
}

// LoadConfig loads configuration from a .json or .toml file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks field ranges and cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Keywords.StopwordsFile != "" {
		if _, err := os.Stat(c.Keywords.StopwordsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: stopwords file not found: %s", c.Keywords.StopwordsFile)
		}
	}

	switch embedding.Provider(c.Embedding.Provider) {
	case embedding.ProviderGemini, embedding.ProviderOpenAI:
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("config error: provider %q requires an API key", c.Embedding.Provider)
		}
	}

	if c.Embedding.BaseURL != "" && embedding.Provider(c.Embedding.Provider) != embedding.ProviderOpenAI {
		return fmt.Errorf("config error: 'base_url' only applies to the openai provider")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// Bool fields cannot distinguish unset from false and are left alone.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	e, d := &result.Embedding, defaults.Embedding
	if e.Provider == "" {
		e.Provider = d.Provider
	}
	if e.Model == "" && e.Provider == d.Provider {
		e.Model = d.Model
	}
	if e.Dimension == 0 && e.Provider == d.Provider {
		e.Dimension = d.Dimension
	}
	if e.BaseURL == "" {
		e.BaseURL = d.BaseURL
	}
	if e.APIKey == "" {
		e.APIKey = d.APIKey
	}
	if e.CacheSize == 0 {
		e.CacheSize = d.CacheSize
	}
	if e.Breaker.MaxRequests == 0 {
		e.Breaker.MaxRequests = d.Breaker.MaxRequests
	}
	if e.Breaker.Interval.Duration == 0 {
		e.Breaker.Interval = d.Breaker.Interval
	}
	if e.Breaker.Timeout.Duration == 0 {
		e.Breaker.Timeout = d.Breaker.Timeout
	}
	if e.Breaker.MinRequests == 0 {
		e.Breaker.MinRequests = d.Breaker.MinRequests
	}
	if e.Breaker.FailureThreshold == 0 {
		e.Breaker.FailureThreshold = d.Breaker.FailureThreshold
	}

	k := &result.Keywords
	if k.JobLimit == 0 {
		k.JobLimit = defaults.Keywords.JobLimit
	}
	if k.ResumeLimit == 0 {
		k.ResumeLimit = defaults.Keywords.ResumeLimit
	}
	if k.BigramBoost == 0 {
		k.BigramBoost = defaults.Keywords.BigramBoost
	}
	if k.StopwordsFile == "" {
		k.StopwordsFile = defaults.Keywords.StopwordsFile
	}

	if result.Batch.Workers == 0 {
		result.Batch.Workers = defaults.Batch.Workers
	}
	if result.Fetch.Timeout.Duration == 0 {
		result.Fetch.Timeout = defaults.Fetch.Timeout
	}
	if result.Fetch.CacheTTL.Duration == 0 {
		result.Fetch.CacheTTL = defaults.Fetch.CacheTTL
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	return result
}

// ApplyEnv overlays environment variables onto empty fields. Provider API
// keys come from GEMINI_API_KEY or OPENAI_API_KEY depending on the provider.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if c.DatabaseURL == "" {
		c.DatabaseURL = getenv("DATABASE_URL")
	}
	if v := getenv("EMBEDDING_PROVIDER"); v != "" && c.Embedding.Provider == "" {
		c.Embedding.Provider = v
	}
	if c.Embedding.APIKey == "" {
		switch embedding.Provider(c.Embedding.Provider) {
		case embedding.ProviderGemini:
			c.Embedding.APIKey = getenv("GEMINI_API_KEY")
		case embedding.ProviderOpenAI:
			c.Embedding.APIKey = getenv("OPENAI_API_KEY")
		}
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = getenv("OPENAI_BASE_URL")
	}
	if v := getenv("PORT"); v != "" && c.Server.Port == 0 {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be a valid integer: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" && len(c.Server.AllowedOrigins) == 0 {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, origin)
			}
		}
	}
	return nil
}

// EmbeddingSettings converts the embedding section into provider configuration.
func (c *Config) EmbeddingSettings() *embedding.Config {
	e := c.Embedding
	cfg := embedding.DefaultConfigFor(embedding.Provider(e.Provider))
	if e.Model != "" {
		cfg.Model = e.Model
	}
	if e.Dimension > 0 {
		cfg.Dimension = e.Dimension
	}
	cfg.BaseURL = e.BaseURL
	cfg.CacheSize = e.CacheSize
	cfg.Breaker = embedding.BreakerConfig{
		Enabled:          !e.Breaker.Disabled,
		MaxRequests:      e.Breaker.MaxRequests,
		Interval:         e.Breaker.Interval.Duration,
		Timeout:          e.Breaker.Timeout.Duration,
		MinRequests:      e.Breaker.MinRequests,
		FailureThreshold: e.Breaker.FailureThreshold,
	}
	return cfg
}
