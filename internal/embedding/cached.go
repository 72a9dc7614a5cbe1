package embedding

import (
	"context"
	"sync"
)

const defaultCacheSize = 4096

// CachedEmbedder memoizes another Embedder by exact text. When the cache is
// full it is cleared rather than evicted entry by entry.
type CachedEmbedder struct {
	inner   Embedder
	maxSize int

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewCached wraps inner with a cache of at most maxSize entries.
func NewCached(inner Embedder, maxSize int) *CachedEmbedder {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &CachedEmbedder{
		inner:   inner,
		maxSize: maxSize,
		cache:   make(map[string][]float32),
	}
}

// Embed implements Embedder. Failures are not cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	if vec, exists := c.cache[text]; exists {
		c.mu.RUnlock()
		return vec, nil
	}
	c.mu.RUnlock()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.cache) >= c.maxSize {
		c.cache = make(map[string][]float32)
	}
	c.cache[text] = vec
	c.mu.Unlock()

	return vec, nil
}

// Model implements Embedder.
func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}

// Dimensions implements Embedder.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Len reports the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// ClearCache clears the in-memory embedding cache.
func (c *CachedEmbedder) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string][]float32)
}
