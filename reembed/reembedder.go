// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// Config holds re-embedding parameters.
type Config struct {
	// BatchSize is the number of entries embedded per embedder call.
	BatchSize int

	// ReportInterval is the number of entries between progress reports.
	ReportInterval int

	// MaxRetries is the number of embedding attempts per batch.
	MaxRetries int

	// RetryDelay is the initial backoff delay between attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns the default re-embedding configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Stats summarizes a completed re-embedding run.
type Stats struct {
	Entries int
	Elapsed time.Duration
}

// Reembedder regenerates the embedding vector of every stored entry.
// It is used after switching embedding models, when all stored vectors
// become stale at once.
type Reembedder struct {
	iterator  *EntryIterator
	processor *BatchProcessor
	config    Config
	logger    *slog.Logger
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReembedder creates a re-embedder over the stored corpus.
func NewReembedder(
	entities storage.EntityRepository,
	vectors storage.VectorRepository,
	provider ai.AIProvider,
	config Config,
	opts ...Option,
) (*Reembedder, error) {
	if entities == nil {
		return nil, ErrEntityRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	if config.BatchSize < 1 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if config.ReportInterval < 1 {
		config.ReportInterval = DefaultConfig().ReportInterval
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultConfig().RetryDelay
	}

	r := &Reembedder{
		config: config,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	iterator, err := NewEntryIterator(entities, config.BatchSize)
	if err != nil {
		return nil, err
	}
	processor, err := NewBatchProcessor(vectors, provider.Embedder(), config.MaxRetries, config.RetryDelay, r.logger)
	if err != nil {
		return nil, err
	}
	r.iterator = iterator
	r.processor = processor

	return r, nil
}

// Run re-embeds every stored entry, writing progress to out. A nil out
// discards progress output. Run stops on the first batch that fails after
// all retries; previously written vectors are kept.
func (r *Reembedder) Run(ctx context.Context, out io.Writer) (*Stats, error) {
	start := time.Now()

	total, err := r.iterator.Count(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Info("starting re-embedding run", "entries", total, "batch_size", r.config.BatchSize)

	tracker := NewProgressTracker(out, total, r.config.ReportInterval)
	err = r.iterator.ForEach(ctx, func(batch []core.Entry) error {
		if processErr := r.processor.Process(ctx, batch); processErr != nil {
			return processErr
		}
		tracker.Increment(len(batch))
		return nil
	})
	if err != nil {
		r.logger.Error("re-embedding run failed", "processed", tracker.Processed(), "err", err)
		return nil, err
	}

	tracker.Finish()
	stats := &Stats{Entries: tracker.Processed(), Elapsed: time.Since(start)}
	r.logger.Info("re-embedding run complete", "entries", stats.Entries, "elapsed", stats.Elapsed)
	return stats, nil
}
