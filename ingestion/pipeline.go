package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/normalize"
	"github.com/poiesic/bioindex/storage"
)

// Pipeline orchestrates the ingestion of raw scraped records: normalization,
// record storage, and concurrent embedding of the resulting entries.
type Pipeline struct {
	entityRepository storage.EntityRepository
	vectorRepository storage.VectorRepository
	normalizer       *normalize.Normalizer
	embeddingPool    *ants.Pool
	embeddingProc    *embeddingProcessor
	batchSize        int
	pending          sync.WaitGroup
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithBatchSize sets how many entry texts are embedded per embedder call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.batchSize = size
		}
		return nil
	}
}

// WithNormalizer sets a custom normalizer.
// Default is a normalizer with default chunking.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(p *Pipeline) error {
		if n == nil {
			return ErrNormalizerRequired
		}
		p.normalizer = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	entityRepository storage.EntityRepository,
	vectorRepository storage.VectorRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if entityRepository == nil {
		return nil, ErrEntityRepositoryRequired
	}
	if vectorRepository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	normalizer, err := normalize.NewNormalizer()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		entityRepository: entityRepository,
		vectorRepository: vectorRepository,
		normalizer:       normalizer,
		embeddingPool:    pool,
		batchSize:        defaultBatchSize,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options so it gets final config.
	proc, err := newEmbeddingProcessor(vectorRepository, provider.Embedder(), p.batchSize, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = proc

	return p, nil
}

// Ingest normalizes one raw record, stores it, and schedules its entries for
// embedding on the worker pool. Embedding errors are logged, not returned:
// entries without vectors are embedded lazily at query time instead.
func (p *Pipeline) Ingest(ctx context.Context, raw core.RawRecord) (*core.EntityRecord, error) {
	record, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if err := p.entityRepository.AddEntityRecords(ctx, record); err != nil {
		return nil, err
	}

	if len(record.Entries) == 0 {
		return record, nil
	}

	p.pending.Add(1)
	submitErr := p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := p.embeddingProc.process(context.Background(), record); err != nil {
			p.logger.Error("error embedding entries", "entity", record.Name, "err", err)
		}
	})
	if submitErr != nil {
		p.pending.Done()
		p.logger.Error("error scheduling embedding work", "entity", record.Name, "err", submitErr)
	}

	return record, nil
}

// IngestAll ingests a batch of raw records, continuing past per-record
// normalization failures. Returns the stored records and the count skipped.
func (p *Pipeline) IngestAll(ctx context.Context, raws []core.RawRecord) ([]*core.EntityRecord, int, error) {
	var records []*core.EntityRecord
	skipped := 0

	for _, raw := range raws {
		record, err := p.Ingest(ctx, raw)
		if err != nil {
			p.logger.Warn("skipping raw record", "err", err)
			skipped++
			continue
		}
		records = append(records, record)
	}

	p.logger.Info("batch ingestion complete", "stored", len(records), "skipped", skipped)
	return records, skipped, nil
}

// Wait blocks until all scheduled embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release waits for in-flight work and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.pending.Wait()
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
