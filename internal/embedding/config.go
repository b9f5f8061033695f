package embedding

import (
	"context"
	"fmt"
)

// Provider names an embedding backend.
type Provider string

// Supported providers.
const (
	// ProviderHash is the offline feature-hashing embedder.
	ProviderHash Provider = "hash"
	// ProviderGemini is Google's Gemini embedding API.
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is OpenAI's embeddings API (or any compatible endpoint).
	ProviderOpenAI Provider = "openai"
)

// Default models and their output dimensions.
const (
	DefaultGeminiModel     = "text-embedding-004"
	DefaultGeminiDimension = 768
	DefaultOpenAIModel     = "text-embedding-3-small"
	DefaultOpenAIDimension = 1536
	DefaultHashDimension   = 256
)

// Config selects and configures an embedding provider.
type Config struct {
	Provider  Provider
	Model     string
	Dimension int
	BaseURL   string // OpenAI-compatible endpoint override
	CacheSize int    // 0 disables the in-memory cache
	Breaker   BreakerConfig
}

// DefaultConfig returns the offline hashing configuration.
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderHash)
}

// DefaultConfigFor returns defaults for the given provider.
func DefaultConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderGemini:
		return &Config{Provider: ProviderGemini, Model: DefaultGeminiModel, Dimension: DefaultGeminiDimension}
	case ProviderOpenAI:
		return &Config{Provider: ProviderOpenAI, Model: DefaultOpenAIModel, Dimension: DefaultOpenAIDimension}
	default:
		return &Config{Provider: ProviderHash, Dimension: DefaultHashDimension}
	}
}

// WithModel returns a copy of c using a different model.
func (c *Config) WithModel(model string) *Config {
	copied := *c
	copied.Model = model
	return &copied
}

// NewEmbedder builds the configured provider, wrapped in the cache and
// circuit breaker when those are enabled. The returned close function
// releases provider resources and is never nil.
func NewEmbedder(ctx context.Context, cfg *Config, apiKey string) (Embedder, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var (
		base    Embedder
		closeFn = func() error { return nil }
	)

	switch cfg.Provider {
	case ProviderGemini:
		g, err := NewGeminiEmbedder(ctx, cfg, apiKey)
		if err != nil {
			return nil, nil, err
		}
		base, closeFn = g, g.Close
	case ProviderOpenAI:
		o, err := NewOpenAIEmbedder(cfg, apiKey)
		if err != nil {
			return nil, nil, err
		}
		base = o
	case ProviderHash, "":
		base = NewHashEmbedder(cfg.Dimension)
	default:
		return nil, nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	if cfg.Breaker.Enabled {
		base = NewBreakerEmbedder(string(cfg.Provider), base, cfg.Breaker)
	}
	if cfg.CacheSize > 0 {
		base = NewCachedEmbedder(base, cfg.CacheSize)
	}
	return base, closeFn, nil
}
