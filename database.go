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

package bioindex

import (
	"log/slog"

	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/ai/openai"
	"github.com/poiesic/bioindex/ingestion"
	"github.com/poiesic/bioindex/reembed"
	"github.com/poiesic/bioindex/search"
	"github.com/poiesic/bioindex/storage"
	"github.com/poiesic/bioindex/storage/badger"
)

// Database wires the storage backend, repositories, and AI provider into
// a single handle the command-line tools build on.
type Database struct {
	backend    *badger.Backend
	entityRepo storage.EntityRepository
	vectorRepo storage.VectorRepository
	provider   ai.AIProvider
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider supplies a pre-built AI provider instead of constructing
// one from configuration. The database takes ownership and closes it.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the storage backend in memory, discarding all data
// on close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the index at filePath and constructs its repositories
// and AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	entityRepo, err := badger.NewEntityRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		entityRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectorRepo.Close()
			entityRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:    backend,
		entityRepo: entityRepo,
		vectorRepo: vectorRepo,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.vectorRepo.Close(); err != nil {
		db.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := db.entityRepo.Close(); err != nil {
		db.logger.Error("error closing entity repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) EntityRepository() storage.EntityRepository {
	return db.entityRepo
}

func (db *Database) VectorRepository() storage.VectorRepository {
	return db.vectorRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.entityRepo, db.vectorRepo, db.provider, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.entityRepo, db.vectorRepo, db.provider, opts...)
}

func (db *Database) NewReembedder(config reembed.Config, opts ...reembed.Option) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.entityRepo, db.vectorRepo, db.provider, config, opts...)
}
