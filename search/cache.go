package search

import (
	"sync"

	"github.com/poiesic/bioindex/core"
)

// EmbeddingCache holds entry vectors keyed by content identity for the
// lifetime of the process. The cache is safe for concurrent use with
// write-once-per-key semantics: concurrent misses for the same key may
// redundantly compute, but the first stored vector wins and is never
// overwritten, so readers always see a consistent value.
//
// There is no eviction at this scale; Evict exists as a hook for callers
// that know a vector is stale (e.g. after reembedding).
type EmbeddingCache struct {
	mu      sync.RWMutex
	vectors map[core.ID][]float32
}

// NewEmbeddingCache creates an empty cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{
		vectors: make(map[core.ID][]float32),
	}
}

// Get returns the cached vector for id, if present.
func (c *EmbeddingCache) Get(id core.ID) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vector, ok := c.vectors[id]
	return vector, ok
}

// Put stores a vector for id unless one is already present.
// Returns the vector that is in the cache after the call.
func (c *EmbeddingCache) Put(id core.ID, vector []float32) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.vectors[id]; ok {
		return existing
	}
	c.vectors[id] = vector
	return vector
}

// Evict removes the vector for id, if present.
func (c *EmbeddingCache) Evict(id core.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vectors, id)
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
