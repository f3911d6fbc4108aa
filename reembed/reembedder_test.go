package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/bioindex/ai/mock"
	"github.com/poiesic/bioindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReembedder_Validation(t *testing.T) {
	entities, vectors := testRepositories(t)
	provider := mock.NewMockProvider()

	t.Run("nil entity repository", func(t *testing.T) {
		_, err := NewReembedder(nil, vectors, provider, DefaultConfig())
		assert.Equal(t, ErrEntityRepositoryRequired, err)
	})

	t.Run("nil vector repository", func(t *testing.T) {
		_, err := NewReembedder(entities, nil, provider, DefaultConfig())
		assert.Equal(t, ErrVectorRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewReembedder(entities, vectors, nil, DefaultConfig())
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestNewReembedder_ZeroConfigGetsDefaults(t *testing.T) {
	entities, vectors := testRepositories(t)

	r, err := NewReembedder(entities, vectors, mock.NewMockProvider(), Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.config)
}

func TestRun_ReembedsAllEntries(t *testing.T) {
	entities, vectors := testRepositories(t)
	ctx := context.Background()

	entries := []core.Entry{testEntry("alpha"), testEntry("beta"), testEntry("gamma")}
	require.NoError(t, entities.AddEntityRecords(ctx,
		&core.EntityRecord{Id: "a", Name: "A", Entries: entries},
	))

	// Seed a stale vector that the run should overwrite.
	stale := map[core.ID][]float32{entries[0].Id: {9, 9, 9}}
	require.NoError(t, vectors.PutVectors(ctx, stale))

	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(entities, vectors, mock.NewMockProviderWithEmbedder(embedder),
		Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 1, RetryDelay: time.Millisecond})
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := r.Run(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Contains(t, buf.String(), "3/3")

	for _, entry := range entries {
		vector, err := vectors.GetVector(ctx, entry.Id)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, vectorNorm(vector), 1e-5)
	}
}

func TestRun_EmptyCorpus(t *testing.T) {
	entities, vectors := testRepositories(t)

	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(entities, vectors, mock.NewMockProviderWithEmbedder(embedder), DefaultConfig())
	require.NoError(t, err)

	stats, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.Zero(t, embedder.CallCount())
}

func TestRun_StopsOnPersistentFailure(t *testing.T) {
	entities, vectors := testRepositories(t)
	ctx := context.Background()

	require.NoError(t, entities.AddEntityRecords(ctx,
		&core.EntityRecord{Id: "a", Name: "A", Entries: []core.Entry{testEntry("alpha")}},
	))

	failure := errors.New("model not loaded")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, failure
	}

	r, err := NewReembedder(entities, vectors, mock.NewMockProviderWithEmbedder(embedder),
		Config{BatchSize: 10, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond})
	require.NoError(t, err)

	_, err = r.Run(ctx, nil)
	assert.Equal(t, failure, err)
}
