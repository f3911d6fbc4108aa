package search

import (
	"sync"
	"testing"

	"github.com/poiesic/bioindex/core"
	"github.com/stretchr/testify/assert"
)

func TestEmbeddingCache_WriteOnce(t *testing.T) {
	cache := NewEmbeddingCache()
	id := core.IDFromContent("some text")

	first := cache.Put(id, []float32{1, 0})
	second := cache.Put(id, []float32{0, 1})

	// The first stored vector wins.
	assert.Equal(t, []float32{1, 0}, first)
	assert.Equal(t, []float32{1, 0}, second)

	got, ok := cache.Get(id)
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 0}, got)
}

func TestEmbeddingCache_Miss(t *testing.T) {
	cache := NewEmbeddingCache()
	_, ok := cache.Get(core.ID(7))
	assert.False(t, ok)
}

func TestEmbeddingCache_Evict(t *testing.T) {
	cache := NewEmbeddingCache()
	id := core.IDFromContent("stale")

	cache.Put(id, []float32{1})
	cache.Evict(id)

	_, ok := cache.Get(id)
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestEmbeddingCache_ConcurrentAccess(t *testing.T) {
	cache := NewEmbeddingCache()
	ids := make([]core.ID, 16)
	for i := range ids {
		ids[i] = core.ID(i + 1)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				cache.Put(id, []float32{float32(id)})
				if vector, ok := cache.Get(id); ok {
					assert.Equal(t, []float32{float32(id)}, vector)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(ids), cache.Len())
}
