package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/jonathan/resume-relevance/internal/parsing"
)

// HashEmbedder is a deterministic, offline embedder based on signed feature
// hashing of normalized tokens. The output is L2-normalized; text without
// tokens maps to the zero vector.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a hashing embedder. Non-positive dimensions fall
// back to DefaultHashDimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultHashDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// Dimension returns the output length.
func (h *HashEmbedder) Dimension() int {
	return h.dimension
}

// Embed hashes each token into a bucket with a hash-derived sign.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, h.dimension)
	for _, token := range parsing.Tokenize(text) {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(token))
		sum := hasher.Sum64()

		idx := int(sum % uint64(h.dimension))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}
