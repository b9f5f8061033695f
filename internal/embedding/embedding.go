// Package embedding provides text embedding providers used by the feature assembler.
//
// Every provider maps a text to a vector of a fixed dimension and is expected
// to be deterministic for identical input. Providers do not retry; callers
// that want resilience wrap them (see BreakerEmbedder).
package embedding

import (
	"context"
	"fmt"
)

// Embedder generates an embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Func adapts a plain function to the Embedder interface.
type Func func(ctx context.Context, text string) ([]float64, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, text string) ([]float64, error) {
	return f(ctx, text)
}

// ProviderError reports a failed call to a remote embedding API.
type ProviderError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s embedding failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s embedding failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
