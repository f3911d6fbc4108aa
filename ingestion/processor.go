package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// defaultBatchSize bounds how many entry texts go to the embedder per call.
const defaultBatchSize = 32

// embeddingProcessor generates and stores vectors for entity record entries.
type embeddingProcessor struct {
	vectorRepository storage.VectorRepository
	embedder         ai.Embedder
	batchSize        int
	logger           *slog.Logger
}

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(vectorRepository storage.VectorRepository, embedder ai.Embedder, batchSize int, logger *slog.Logger) (*embeddingProcessor, error) {
	if vectorRepository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		vectorRepository: vectorRepository,
		embedder:         embedder,
		batchSize:        batchSize,
		logger:           logger.With("processor", "embeddings"),
	}, nil
}

// process embeds every entry of the record in batches and stores the vectors
// keyed by entry content ID. Entries whose ID already has a stored vector are
// still re-embedded; ingestion is the authority on vector freshness.
func (ep *embeddingProcessor) process(ctx context.Context, record *core.EntityRecord) error {
	entries := record.Entries
	ep.logger.Info("embedding entity record entries",
		"entity", record.Name, "entries", len(entries))

	for start := 0; start < len(entries); start += ep.batchSize {
		end := start + ep.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, entry := range batch {
			texts[i] = entry.Text
		}

		embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			ep.logger.Error("error generating embeddings",
				"entity", record.Name, "batch", len(texts), "err", err)
			return err
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
		}

		vectors := make(map[core.ID][]float32, len(batch))
		for i, entry := range batch {
			vectors[entry.Id] = embeddings[i]
		}
		if err := ep.vectorRepository.PutVectors(ctx, vectors); err != nil {
			return err
		}
	}

	return nil
}
