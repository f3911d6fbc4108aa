package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
	badgerstore "github.com/poiesic/bioindex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(text string) core.Entry {
	return core.Entry{
		Id:         core.IDFromContent(text),
		Type:       "biography",
		Text:       text,
		ChunkIndex: -1,
	}
}

func testRepositories(t *testing.T) (storage.EntityRepository, storage.VectorRepository) {
	t.Helper()

	entities, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectors.Close()
		entities.Close()
		backend.Close()
	})
	return entities, vectors
}

func TestNewEntryIterator_NilRepository(t *testing.T) {
	_, err := NewEntryIterator(nil, 10)
	assert.Equal(t, ErrEntityRepositoryRequired, err)
}

func TestEntryIterator_BatchesAllEntries(t *testing.T) {
	entities, _ := testRepositories(t)
	ctx := context.Background()

	require.NoError(t, entities.AddEntityRecords(ctx,
		&core.EntityRecord{Id: "a", Name: "A", Entries: []core.Entry{
			testEntry("first"), testEntry("second"), testEntry("third"),
		}},
		&core.EntityRecord{Id: "b", Name: "B", Entries: []core.Entry{
			testEntry("fourth"), testEntry("fifth"),
		}},
	))

	it, err := NewEntryIterator(entities, 2)
	require.NoError(t, err)

	count, err := it.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	var batchSizes []int
	var texts []string
	err = it.ForEach(ctx, func(batch []core.Entry) error {
		batchSizes = append(batchSizes, len(batch))
		for _, entry := range batch {
			texts = append(texts, entry.Text)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
	assert.Len(t, texts, 5)
}

func TestEntryIterator_DeduplicatesByContentID(t *testing.T) {
	entities, _ := testRepositories(t)
	ctx := context.Background()

	// The same text in two records shares a content ID and one vector.
	require.NoError(t, entities.AddEntityRecords(ctx,
		&core.EntityRecord{Id: "a", Name: "A", Entries: []core.Entry{testEntry("shared text")}},
		&core.EntityRecord{Id: "b", Name: "B", Entries: []core.Entry{testEntry("shared text")}},
	))

	it, err := NewEntryIterator(entities, 10)
	require.NoError(t, err)

	count, err := it.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEntryIterator_StopsOnVisitorError(t *testing.T) {
	entities, _ := testRepositories(t)
	ctx := context.Background()

	require.NoError(t, entities.AddEntityRecords(ctx,
		&core.EntityRecord{Id: "a", Name: "A", Entries: []core.Entry{
			testEntry("one"), testEntry("two"),
		}},
	))

	it, err := NewEntryIterator(entities, 1)
	require.NoError(t, err)

	failure := errors.New("stop")
	calls := 0
	err = it.ForEach(ctx, func(batch []core.Entry) error {
		calls++
		return failure
	})
	assert.Equal(t, failure, err)
	assert.Equal(t, 1, calls)
}

func TestEntryIterator_EmptyCorpus(t *testing.T) {
	entities, _ := testRepositories(t)

	it, err := NewEntryIterator(entities, 10)
	require.NoError(t, err)

	err = it.ForEach(context.Background(), func(batch []core.Entry) error {
		t.Fatal("visitor should not be called")
		return nil
	})
	assert.NoError(t, err)
}
