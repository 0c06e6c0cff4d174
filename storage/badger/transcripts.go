package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/counselbase/core"
	"github.com/poiesic/counselbase/storage"
)

// TranscriptRepository implements storage.TranscriptRepository for BadgerDB.
type TranscriptRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(backend *Backend) (storage.TranscriptRepository, error) {
	seq, err := backend.GetSequence(transcriptSeq)
	if err != nil {
		return nil, err
	}

	return &TranscriptRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the sequence.
func (r *TranscriptRepository) Close() error {
	return r.seq.Release()
}

// FindNearest delegates to the backend.
func (r *TranscriptRepository) FindNearest(ctx context.Context, vector []float32, k int) ([]*core.RankedTranscript, error) {
	return r.backend.FindNearest(ctx, vector, k)
}

// AddTranscripts adds one or more transcript records to storage.
func (r *TranscriptRepository) AddTranscripts(ctx context.Context, records ...*core.TranscriptRecord) ([]*core.TranscriptRecord, error) {
	// Validate before touching the sequence so a bad batch persists nothing.
	for _, record := range records {
		if err := core.ValidateTranscriptRecord(record); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Always assign a new sequence number
			nextSeq, err := r.seq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextSeq == 0 {
				nextSeq, err = r.seq.Next()
				if err != nil {
					return err
				}
			}
			record.Seq = core.Seq(nextSeq)

			if record.Id == "" {
				record.Id = core.NewRecordID()
			}
			record.Fingerprint = core.FingerprintOf(record.Context, record.Response)
			record.InsertedAt = time.Now().UTC()

			// Store primary record
			key := makeTranscriptKey(record.Seq)
			value := storage.MarshalTranscriptRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update ID index
			idKey := makeTranscriptIDKey(record.Id)
			if err := tx.Set(idKey, storage.MarshalSeq(record.Seq)); err != nil {
				return err
			}

			// Update fingerprint index
			fpKey := makeTranscriptFingerprintKey(record.Fingerprint, record.Seq)
			if err := tx.Set(fpKey, storage.MarshalSeq(record.Seq)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateTranscripts rewrites existing records in place.
func (r *TranscriptRepository) UpdateTranscripts(ctx context.Context, records ...*core.TranscriptRecord) ([]*core.TranscriptRecord, error) {
	for _, record := range records {
		if err := core.ValidateTranscriptRecord(record); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeTranscriptKey(record.Seq)

			old, err := r.readTranscriptRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Keep identity and provenance stable across rewrites
			record.Id = old.Id
			record.InsertedAt = old.InsertedAt

			// Refresh the fingerprint index if the content changed
			newFP := core.FingerprintOf(record.Context, record.Response)
			if newFP != old.Fingerprint {
				oldKey := makeTranscriptFingerprintKey(old.Fingerprint, old.Seq)
				if err := tx.Delete(oldKey); err != nil {
					return err
				}
				newKey := makeTranscriptFingerprintKey(newFP, record.Seq)
				if err := tx.Set(newKey, storage.MarshalSeq(record.Seq)); err != nil {
					return err
				}
			}
			record.Fingerprint = newFP

			value := storage.MarshalTranscriptRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetTranscript retrieves a single transcript record by ID.
func (r *TranscriptRepository) GetTranscript(ctx context.Context, id core.RecordID) (*core.TranscriptRecord, error) {
	var result *core.TranscriptRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := r.readTranscriptByID(tx, id)
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

// GetTranscripts retrieves multiple transcript records by their IDs.
func (r *TranscriptRepository) GetTranscripts(ctx context.Context, ids ...core.RecordID) ([]*core.TranscriptRecord, error) {
	var result []*core.TranscriptRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readTranscriptByID(tx, id)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindByFingerprint retrieves records with matching content fingerprint,
// in insertion order.
func (r *TranscriptRepository) FindByFingerprint(ctx context.Context, fingerprint core.Fingerprint) ([]*core.TranscriptRecord, error) {
	var results []*core.TranscriptRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialFingerprintKey(fingerprint)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			var seq core.Seq
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				seq, err = storage.UnmarshalSeq(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readTranscriptRecord(tx, makeTranscriptKey(seq))
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

// CountTranscripts returns the number of records in the corpus.
func (r *TranscriptRepository) CountTranscripts(ctx context.Context) (int, error) {
	count := 0
	err := r.scanPrimary(ctx, func(item *badger.Item) error {
		count++
		return nil
	})
	return count, err
}

// ScanTranscripts calls fn for every record in insertion (Seq) order.
func (r *TranscriptRepository) ScanTranscripts(ctx context.Context, fn func(record *core.TranscriptRecord) error) error {
	return r.scanPrimary(ctx, func(item *badger.Item) error {
		var record *core.TranscriptRecord
		err := item.Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalTranscriptRecord(val)
			return err
		})
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		return fn(record)
	})
}

// Helper methods

// scanPrimary iterates all primary transcript keys in insertion order,
// skipping the index and sequence keys that share the prefix.
func (r *TranscriptRepository) scanPrimary(ctx context.Context, fn func(item *badger.Item) error) error {
	primaryPrefix := transcriptPrefix + ":"
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(primaryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Primary keys are exactly prefix + 8 bytes of sequence
			if len(iter.Item().Key()) != len(primaryPrefix)+8 {
				continue
			}
			if err := fn(iter.Item()); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readTranscriptRecord reads a transcript record from the transaction.
// Returns nil without error when the key is absent.
func (r *TranscriptRepository) readTranscriptRecord(tx *badger.Txn, key []byte) (*core.TranscriptRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.TranscriptRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalTranscriptRecord(val)
		return unmarshalErr
	})
	return record, err
}

// readTranscriptByID resolves the ID index and reads the primary record.
func (r *TranscriptRepository) readTranscriptByID(tx *badger.Txn, id core.RecordID) (*core.TranscriptRecord, error) {
	item, err := tx.Get(makeTranscriptIDKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var seq core.Seq
	if err := item.Value(func(val []byte) error {
		var err error
		seq, err = storage.UnmarshalSeq(val)
		return err
	}); err != nil {
		return nil, err
	}

	return r.readTranscriptRecord(tx, makeTranscriptKey(seq))
}
