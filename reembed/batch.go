package reembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// BatchProcessor embeds a batch of entries and stores the normalized vectors.
// Transient embedder failures are retried with exponential backoff.
type BatchProcessor struct {
	vectors    storage.VectorRepository
	embedder   ai.Embedder
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(vectors storage.VectorRepository, embedder ai.Embedder, maxRetries int, retryDelay time.Duration, logger *slog.Logger) (*BatchProcessor, error) {
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		vectors:    vectors,
		embedder:   embedder,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger.With("component", "batch-processor"),
	}, nil
}

// Process embeds the batch and overwrites any previously stored vectors for
// its entries. Vectors are normalized to unit length before storage.
func (bp *BatchProcessor) Process(ctx context.Context, batch []core.Entry) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, entry := range batch {
		texts[i] = entry.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, bp.maxRetries, bp.retryDelay, func() error {
		var embedErr error
		embeddings, embedErr = bp.embedder.EmbedTexts(ctx, texts)
		if embedErr != nil {
			bp.logger.Warn("embedding attempt failed", "batch", len(texts), "err", embedErr)
		}
		return embedErr
	})
	if err != nil {
		return err
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
	}

	vectors := make(map[core.ID][]float32, len(batch))
	for i, entry := range batch {
		vectors[entry.Id] = NormalizeVector(embeddings[i])
	}
	return bp.vectors.PutVectors(ctx, vectors)
}
