package reembed

import (
	"context"

	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// EntryIterator walks every entry of every stored entity record in batches.
// Entries sharing a content ID are visited once, since they map to the same
// stored vector.
type EntryIterator struct {
	entities  storage.EntityRepository
	batchSize int
}

// NewEntryIterator creates an iterator over all stored entries.
func NewEntryIterator(entities storage.EntityRepository, batchSize int) (*EntryIterator, error) {
	if entities == nil {
		return nil, ErrEntityRepositoryRequired
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return &EntryIterator{entities: entities, batchSize: batchSize}, nil
}

// Count returns the number of distinct entries that ForEach will visit.
func (it *EntryIterator) Count(ctx context.Context) (int, error) {
	entries, err := it.collect(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ForEach invokes fn with successive batches of entries. Iteration stops on
// the first error from fn or on context cancellation.
func (it *EntryIterator) ForEach(ctx context.Context, fn func(batch []core.Entry) error) error {
	entries, err := it.collect(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(entries); start += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + it.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := fn(entries[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (it *EntryIterator) collect(ctx context.Context) ([]core.Entry, error) {
	records, err := it.entities.ListEntityRecords(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[core.ID]struct{})
	var entries []core.Entry
	for _, record := range records {
		for _, entry := range record.Entries {
			if _, ok := seen[entry.Id]; ok {
				continue
			}
			seen[entry.Id] = struct{}{}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
