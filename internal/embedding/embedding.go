/*
Package embedding turns text into fixed-length vectors for the semantic index.

Embedders are deterministic for identical input and model. The same Embedder
must be used to build an index and to query it; entries record the model name
so a mismatch can be detected.
*/
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/khanglvm/focus-ask/internal/config"
)

// Embedder converts text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model names the embedding model, e.g. "hash-256" or "nomic-embed-text".
	Model() string

	// Dimensions is the vector length, or 0 when not yet known.
	Dimensions() int
}

// Provider names accepted by New.
const (
	ProviderHash   = "hash"
	ProviderOllama = "ollama"
)

// New builds the embedder selected by cfg.Provider, wrapped in a cache.
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case ProviderHash, "":
		return NewCached(NewHashEmbedder(cfg.Dimensions), defaultCacheSize), nil
	case ProviderOllama:
		var opts []OllamaOption
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		return NewCached(NewOllamaClient(opts...), defaultCacheSize), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// CosineSimilarity computes cosine similarity between two vectors.
// Vectors of different length, or with zero norm, score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// normalize scales v to unit length in place. A zero vector is left unchanged.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
