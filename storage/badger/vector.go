package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	return &VectorRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutVectors stores embedding vectors for entries.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for id, vector := range vectors {
			key := makeVectorKey(id)
			if err := tx.Set(key, storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVector retrieves the embedding vector for an entry.
func (r *VectorRepository) GetVector(ctx context.Context, id core.ID) ([]float32, error) {
	var result []float32
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalVector(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// GetVectors retrieves vectors for multiple entries.
func (r *VectorRepository) GetVectors(ctx context.Context, ids ...core.ID) (map[core.ID][]float32, error) {
	results := make(map[core.ID][]float32, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeVectorKey(id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			if err := item.Value(func(val []byte) error {
				vector, unmarshalErr := storage.UnmarshalVector(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				results[id] = vector
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// EachVector visits every stored vector in key order.
func (r *VectorRepository) EachVector(ctx context.Context, fn func(id core.ID, vector []float32) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			id, ok := vectorKeyID(item.Key())
			if !ok {
				continue
			}

			var vector []float32
			if err := item.Value(func(val []byte) error {
				var unmarshalErr error
				vector, unmarshalErr = storage.UnmarshalVector(val)
				return unmarshalErr
			}); err != nil {
				return err
			}

			if err := fn(id, vector); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// DeleteVectors removes vectors by entry ID.
func (r *VectorRepository) DeleteVectors(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeVectorKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
