package search

import (
	"context"
	"sync"

	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// corpusEntry pairs an entry with its owning record. The flattened slice
// keeps corpus order, and ranking sorts it stably, so position in the slice
// is the tie-break for equal scores.
type corpusEntry struct {
	record *core.EntityRecord
	entry  *core.Entry
}

// corpus is the lazily loaded in-memory view of all entity records.
// The flattened entry list preserves record order and per-record entry order
// so repeated queries score entries in the same sequence.
type corpus struct {
	mu      sync.Mutex
	loaded  bool
	entries []corpusEntry
}

// load populates the corpus from the repository on first use.
// Subsequent calls return the cached view until Invalidate is called.
func (c *corpus) load(ctx context.Context, repo storage.EntityRepository) ([]corpusEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.entries, nil
	}

	records, err := repo.ListEntityRecords(ctx)
	if err != nil {
		return nil, err
	}

	var entries []corpusEntry
	for _, record := range records {
		for i := range record.Entries {
			entries = append(entries, corpusEntry{
				record: record,
				entry:  &record.Entries[i],
			})
		}
	}

	c.loaded = true
	c.entries = entries
	return entries, nil
}

// Invalidate discards the cached view so the next query reloads from storage.
func (c *corpus) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.entries = nil
}
