package embedding

import (
	"context"
	"sync"
)

// CachedEmbedder memoizes embeddings by exact input text. It relies on the
// wrapped provider being deterministic. When full, the oldest entry is evicted.
type CachedEmbedder struct {
	next    Embedder
	maxSize int

	mu      sync.Mutex
	entries map[string][]float64
	order   []string
	hits    int
	misses  int
}

// NewCachedEmbedder wraps next with a cache of at most maxSize entries.
func NewCachedEmbedder(next Embedder, maxSize int) *CachedEmbedder {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &CachedEmbedder{
		next:    next,
		maxSize: maxSize,
		entries: make(map[string][]float64, maxSize),
	}
}

// Embed returns a cached vector or computes and stores a new one. Errors are
// never cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	c.mu.Lock()
	if vec, ok := c.entries[text]; ok {
		c.hits++
		c.mu.Unlock()
		return clone(vec), nil
	}
	c.misses++
	c.mu.Unlock()

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[text]; !ok {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[text] = clone(vec)
		c.order = append(c.order, text)
	}
	return vec, nil
}

// Stats returns cache hit and miss counts and the current size.
func (c *CachedEmbedder) Stats() (hits, misses, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}

func clone(vec []float64) []float64 {
	out := make([]float64, len(vec))
	copy(out, vec)
	return out
}
