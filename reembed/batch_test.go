package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/bioindex/ai/mock"
	"github.com/poiesic/bioindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchProcessor_Validation(t *testing.T) {
	_, vectors := testRepositories(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewBatchProcessor(nil, embedder, 3, time.Millisecond, nil)
	assert.Equal(t, ErrVectorRepositoryRequired, err)

	_, err = NewBatchProcessor(vectors, nil, 3, time.Millisecond, nil)
	assert.Equal(t, ErrAIProviderRequired, err)
}

func TestBatchProcessor_StoresNormalizedVectors(t *testing.T) {
	_, vectors := testRepositories(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{3, 4}
		}
		return out, nil
	}

	processor, err := NewBatchProcessor(vectors, embedder, 3, time.Millisecond, nil)
	require.NoError(t, err)

	batch := []core.Entry{testEntry("one"), testEntry("two")}
	require.NoError(t, processor.Process(ctx, batch))

	for _, entry := range batch {
		vector, err := vectors.GetVector(ctx, entry.Id)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, vectorNorm(vector), 1e-6)
	}
}

func TestBatchProcessor_RetriesTransientFailures(t *testing.T) {
	_, vectors := testRepositories(t)
	ctx := context.Background()

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}

	processor, err := NewBatchProcessor(vectors, embedder, 3, time.Millisecond, nil)
	require.NoError(t, err)

	entry := testEntry("retried")
	require.NoError(t, processor.Process(ctx, []core.Entry{entry}))
	assert.Equal(t, 3, calls)

	_, err = vectors.GetVector(ctx, entry.Id)
	assert.NoError(t, err)
}

func TestBatchProcessor_ExhaustedRetriesFail(t *testing.T) {
	_, vectors := testRepositories(t)

	failure := errors.New("persistent")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, failure
	}

	processor, err := NewBatchProcessor(vectors, embedder, 2, time.Millisecond, nil)
	require.NoError(t, err)

	err = processor.Process(context.Background(), []core.Entry{testEntry("doomed")})
	assert.Equal(t, failure, err)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestBatchProcessor_ResultCountMismatch(t *testing.T) {
	_, vectors := testRepositories(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor, err := NewBatchProcessor(vectors, embedder, 1, time.Millisecond, nil)
	require.NoError(t, err)

	err = processor.Process(context.Background(), []core.Entry{testEntry("a"), testEntry("b")})
	assert.ErrorContains(t, err, "mismatch")
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	_, vectors := testRepositories(t)

	embedder := mock.NewMockEmbedder()
	processor, err := NewBatchProcessor(vectors, embedder, 1, time.Millisecond, nil)
	require.NoError(t, err)

	require.NoError(t, processor.Process(context.Background(), nil))
	assert.Zero(t, embedder.CallCount())
}
