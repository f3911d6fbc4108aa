package storage

import (
	"context"

	"github.com/poiesic/bioindex/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// EntityRepository provides operations for managing normalized entity records.
type EntityRepository interface {
	Repository

	// AddEntityRecords stores one or more entity records.
	// Record IDs are assigned by normalization and must be non-empty.
	// An existing record with the same ID is overwritten.
	AddEntityRecords(ctx context.Context, records ...*core.EntityRecord) error

	// GetEntityRecord retrieves a single entity record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetEntityRecord(ctx context.Context, id string) (*core.EntityRecord, error)

	// FindEntityRecordByName finds the record whose Name matches,
	// case-insensitively. Returns ErrNotFound if no record matches.
	FindEntityRecordByName(ctx context.Context, name string) (*core.EntityRecord, error)

	// ListEntityRecords retrieves all entity records, ordered by ID.
	ListEntityRecords(ctx context.Context) ([]*core.EntityRecord, error)

	// DeleteEntityRecords removes entity records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteEntityRecords(ctx context.Context, ids ...string) error
}

// VectorRepository provides operations for entry embedding vectors, keyed by
// the content-derived entry ID.
type VectorRepository interface {
	Repository

	// PutVectors stores embedding vectors for entries.
	// An existing vector for the same entry ID is overwritten.
	PutVectors(ctx context.Context, vectors map[core.ID][]float32) error

	// GetVector retrieves the embedding vector for an entry.
	// Returns ErrNotFound if no vector is stored for the ID.
	GetVector(ctx context.Context, id core.ID) ([]float32, error)

	// GetVectors retrieves vectors for multiple entries.
	// Missing entries are absent from the result map, not an error.
	GetVectors(ctx context.Context, ids ...core.ID) (map[core.ID][]float32, error)

	// EachVector visits every stored vector. Iteration stops early if fn
	// returns an error, which is propagated to the caller.
	EachVector(ctx context.Context, fn func(id core.ID, vector []float32) error) error

	// DeleteVectors removes vectors by entry ID.
	// Missing vectors are ignored.
	DeleteVectors(ctx context.Context, ids ...core.ID) error
}
