package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/storage"
)

// EntityRepository implements storage.EntityRepository for BadgerDB.
type EntityRepository struct {
	backend *Backend
}

var _ storage.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(backend *Backend) (storage.EntityRepository, error) {
	return &EntityRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *EntityRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EntityRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddEntityRecords stores one or more entity records.
func (r *EntityRepository) AddEntityRecords(ctx context.Context, records ...*core.EntityRecord) error {
	for _, record := range records {
		if record.Id == "" {
			return storage.ErrEmptyRecordID
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeEntityRecordKey(record.Id)
			if err := tx.Set(key, storage.MarshalEntityRecord(record)); err != nil {
				return err
			}
			nameKey := makeEntityNameKey(record.Name)
			if err := tx.Set(nameKey, []byte(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntityRecord retrieves a single entity record by ID.
func (r *EntityRepository) GetEntityRecord(ctx context.Context, id string) (*core.EntityRecord, error) {
	var result *core.EntityRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := readEntityRecord(tx, makeEntityRecordKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// FindEntityRecordByName finds the record whose Name matches, case-insensitively.
func (r *EntityRepository) FindEntityRecordByName(ctx context.Context, name string) (*core.EntityRecord, error) {
	var result *core.EntityRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEntityNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		record, err := readEntityRecord(tx, makeEntityRecordKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// ListEntityRecords retrieves all entity records, ordered by ID.
func (r *EntityRepository) ListEntityRecords(ctx context.Context) ([]*core.EntityRecord, error) {
	var results []*core.EntityRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EntityRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEntityRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteEntityRecords removes entity records by their IDs.
func (r *EntityRepository) DeleteEntityRecords(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEntityRecordKey(id)

			// Read record first to clean up the name index.
			record, err := readEntityRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeEntityNameKey(record.Name)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readEntityRecord reads an entity record from the transaction.
// Returns nil without error if the key is absent.
func readEntityRecord(tx *badger.Txn, key []byte) (*core.EntityRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EntityRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalEntityRecord(val)
		return unmarshalErr
	})
	return record, err
}
