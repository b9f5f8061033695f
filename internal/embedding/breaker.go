package embedding

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker placed in front of a provider.
type BreakerConfig struct {
	Enabled          bool          `json:"enabled" toml:"enabled"`
	MaxRequests      uint32        `json:"max_requests" toml:"max_requests"`
	Interval         time.Duration `json:"interval" toml:"interval"`
	Timeout          time.Duration `json:"timeout" toml:"timeout"`
	MinRequests      uint32        `json:"min_requests" toml:"min_requests"`
	FailureThreshold float64       `json:"failure_threshold" toml:"failure_threshold"`
}

// DefaultBreakerConfig returns conservative breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
}

// BreakerEmbedder stops calling a failing provider until it recovers.
// It is a caller-side policy; the wrapped provider is unchanged.
type BreakerEmbedder struct {
	next Embedder
	cb   *gobreaker.CircuitBreaker[[]float64]
}

// NewBreakerEmbedder wraps next with a circuit breaker named after the provider.
func NewBreakerEmbedder(name string, next Embedder, cfg BreakerConfig) *BreakerEmbedder {
	defaults := DefaultBreakerConfig()
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = defaults.MaxRequests
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = defaults.MinRequests
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("embedding-%s", name),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("[embedding] circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &BreakerEmbedder{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]float64](settings),
	}
}

// Embed forwards to the wrapped provider unless the breaker is open.
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return b.cb.Execute(func() ([]float64, error) {
		return b.next.Embed(ctx, text)
	})
}

// State returns the breaker state name ("closed", "open", "half-open").
func (b *BreakerEmbedder) State() string {
	return b.cb.State().String()
}
