package boltdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/models"
)

var (
	// Keys inside the meta bucket
	keyLastSync  = []byte("last_sync")
	keySyncToken = []byte("sync_token")
)

// SaveLastSync records the completion time of the last successful drain.
func (s *Storage) SaveLastSync(ctx context.Context, t time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyLastSync, []byte(t.UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return fmt.Errorf("meta transaction failed: %w", err)
	}

	return nil
}

// LastSync returns the completion time of the last successful drain, zero if
// none has been recorded.
func (s *Storage) LastSync(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyLastSync)
		if data == nil {
			return nil
		}

		parsed, err := time.Parse(time.RFC3339Nano, string(data))
		if err != nil {
			return fmt.Errorf("failed to parse last sync timestamp: %w", err)
		}
		t = parsed
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}

// SaveSyncToken stores the opaque resumption cursor. An empty token clears it.
func (s *Storage) SaveSyncToken(ctx context.Context, token string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if token == "" {
			return bucket.Delete(keySyncToken)
		}
		return bucket.Put(keySyncToken, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("meta transaction failed: %w", err)
	}

	return nil
}

// SyncToken returns the stored resumption cursor, empty if none.
func (s *Storage) SyncToken(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keySyncToken); data != nil {
			token = string(data)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// Export serializes the full sync state in a single read transaction.
func (s *Storage) Export(ctx context.Context) (*models.SyncMetadata, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	data := &models.SyncMetadata{ExportedAt: time.Now().UTC()}

	err := s.db.View(func(tx *bbolt.Tx) error {
		versions, err := s.listResourceVersions(tx)
		if err != nil {
			return err
		}
		data.ResourceVersions = versions

		collect := func(bucketName []byte, out *[]models.Operation) error {
			return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
				var op models.Operation
				if err := s.decode(v, &op); err != nil {
					return err
				}
				*out = append(*out, op)
				return nil
			})
		}

		if err := collect(bucketPending, &data.PendingOperations); err != nil {
			return err
		}
		if err := collect(bucketFailed, &data.FailedOperations); err != nil {
			return err
		}

		err = tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var c models.Conflict
			if err := s.decode(v, &c); err != nil {
				return err
			}
			data.Conflicts = append(data.Conflicts, c)
			return nil
		})
		if err != nil {
			return err
		}

		if raw := tx.Bucket(bucketMeta).Get(keyLastSync); raw != nil {
			t, err := time.Parse(time.RFC3339Nano, string(raw))
			if err != nil {
				return fmt.Errorf("failed to parse last sync timestamp: %w", err)
			}
			data.LastSyncTimestamp = t
		}
		if raw := tx.Bucket(bucketMeta).Get(keySyncToken); raw != nil {
			data.SyncToken = string(raw)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	// Order exported operations by sequence so the snapshot is deterministic.
	sort.SliceStable(data.PendingOperations, func(i, j int) bool {
		return data.PendingOperations[i].Seq < data.PendingOperations[j].Seq
	})
	sort.SliceStable(data.FailedOperations, func(i, j int) bool {
		return data.FailedOperations[i].Seq < data.FailedOperations[j].Seq
	})

	return data, nil
}

// Import restores state from a snapshot inside one write transaction.
// Malformed records are quarantined: skipped with a recorded reason so a
// single bad entry does not prevent valid siblings from loading. The pending
// bucket's sequence counter is advanced past the highest imported sequence so
// later enqueues keep ordering after imported operations.
func (s *Storage) Import(ctx context.Context, data *models.SyncMetadata) (*storage.ImportResult, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	if data == nil {
		return nil, fmt.Errorf("import data is nil")
	}

	result := &storage.ImportResult{}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		pending := tx.Bucket(bucketPending)
		var maxSeq uint64

		for i := range data.PendingOperations {
			op := data.PendingOperations[i]
			if err := op.Validate(); err != nil {
				result.Quarantined = append(result.Quarantined, fmt.Sprintf("pending operation: %v", err))
				continue
			}
			encoded, err := s.encode(&op)
			if err != nil {
				return err
			}
			if err := pending.Put([]byte(op.ID), encoded); err != nil {
				return fmt.Errorf("failed to restore operation: %w", err)
			}
			if op.Seq > maxSeq {
				maxSeq = op.Seq
			}
			result.Operations++
		}

		failed := tx.Bucket(bucketFailed)
		for i := range data.FailedOperations {
			op := data.FailedOperations[i]
			if err := op.Validate(); err != nil {
				result.Quarantined = append(result.Quarantined, fmt.Sprintf("failed operation: %v", err))
				continue
			}
			encoded, err := s.encode(&op)
			if err != nil {
				return err
			}
			if err := failed.Put([]byte(op.ID), encoded); err != nil {
				return fmt.Errorf("failed to restore failed operation: %w", err)
			}
			if op.Seq > maxSeq {
				maxSeq = op.Seq
			}
			result.Failed++
		}

		if maxSeq > pending.Sequence() {
			if err := pending.SetSequence(maxSeq); err != nil {
				return fmt.Errorf("failed to advance sequence: %w", err)
			}
		}

		versions := tx.Bucket(bucketVersions)
		for i := range data.ResourceVersions {
			v := data.ResourceVersions[i]
			if v.ResourceType == "" || v.ResourceID == "" || v.Version == "" {
				result.Quarantined = append(result.Quarantined, fmt.Sprintf("resource version %q: incomplete", v.Key()))
				continue
			}
			encoded, err := s.encode(&v)
			if err != nil {
				return err
			}
			if err := versions.Put([]byte(v.Key().String()), encoded); err != nil {
				return fmt.Errorf("failed to restore version: %w", err)
			}
			result.Versions++
		}

		conflicts := tx.Bucket(bucketConflicts)
		for i := range data.Conflicts {
			c := data.Conflicts[i]
			if err := c.Validate(); err != nil {
				result.Quarantined = append(result.Quarantined, fmt.Sprintf("conflict: %v", err))
				continue
			}
			encoded, err := s.encode(&c)
			if err != nil {
				return err
			}
			if err := conflicts.Put([]byte(c.ID), encoded); err != nil {
				return fmt.Errorf("failed to restore conflict: %w", err)
			}
			result.Conflicts++
		}

		meta := tx.Bucket(bucketMeta)
		if !data.LastSyncTimestamp.IsZero() {
			ts := data.LastSyncTimestamp.UTC().Format(time.RFC3339Nano)
			if err := meta.Put(keyLastSync, []byte(ts)); err != nil {
				return fmt.Errorf("failed to restore last sync timestamp: %w", err)
			}
		}
		if data.SyncToken != "" {
			if err := meta.Put(keySyncToken, []byte(data.SyncToken)); err != nil {
				return fmt.Errorf("failed to restore sync token: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	return result, nil
}
