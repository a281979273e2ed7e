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

// EnqueueOperation appends an operation to the durable queue. The pending
// bucket's sequence counter assigns op.Seq, which orders operations against
// the same resource across interruption/resume cycles.
func (s *Storage) EnqueueOperation(ctx context.Context, op *models.Operation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)

		if bucket.Get([]byte(op.ID)) != nil {
			return storage.ErrDuplicateOperation
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to assign sequence: %w", err)
		}
		op.Seq = seq

		data, err := s.encode(op)
		if err != nil {
			return err
		}

		if err := bucket.Put([]byte(op.ID), data); err != nil {
			return fmt.Errorf("failed to save operation: %w", err)
		}

		return nil
	})
	if err != nil {
		if err == storage.ErrDuplicateOperation {
			return err
		}
		return fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return nil
}

// GetOperation retrieves a pending operation by id.
func (s *Storage) GetOperation(ctx context.Context, id string) (*models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var op *models.Operation

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPending).Get([]byte(id))
		if data == nil {
			return storage.ErrOperationNotFound
		}

		op = &models.Operation{}
		return s.decode(data, op)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// PendingOperations returns a snapshot of the pending queue ordered by
// (priority desc, sequence asc).
func (s *Storage) PendingOperations(ctx context.Context) ([]*models.Operation, error) {
	ops, err := s.listOperations(bucketPending)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Priority.Rank() != ops[j].Priority.Rank() {
			return ops[i].Priority.Rank() > ops[j].Priority.Rank()
		}
		return ops[i].Seq < ops[j].Seq
	})

	return ops, nil
}

// FailedOperations returns abandoned operations ordered by sequence.
func (s *Storage) FailedOperations(ctx context.Context) ([]*models.Operation, error) {
	ops, err := s.listOperations(bucketFailed)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].Seq < ops[j].Seq
	})

	return ops, nil
}

func (s *Storage) listOperations(bucketName []byte) ([]*models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var ops []*models.Operation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var op models.Operation
			if err := s.decode(v, &op); err != nil {
				return err
			}
			ops = append(ops, &op)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	return ops, nil
}

// UpdateOperation overwrites a pending operation in place.
func (s *Storage) UpdateOperation(ctx context.Context, op *models.Operation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)

		if bucket.Get([]byte(op.ID)) == nil {
			return storage.ErrOperationNotFound
		}

		data, err := s.encode(op)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(op.ID), data)
	})
	if err != nil {
		if err == storage.ErrOperationNotFound {
			return err
		}
		return fmt.Errorf("update transaction failed: %w", err)
	}

	return nil
}

// DeleteOperation removes a pending operation.
func (s *Storage) DeleteOperation(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)

		if bucket.Get([]byte(id)) == nil {
			return storage.ErrOperationNotFound
		}

		return bucket.Delete([]byte(id))
	})
	if err != nil {
		if err == storage.ErrOperationNotFound {
			return err
		}
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// FailOperation atomically moves an operation from the pending set to the
// failed set.
func (s *Storage) FailOperation(ctx context.Context, op *models.Operation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		pending := tx.Bucket(bucketPending)

		if pending.Get([]byte(op.ID)) == nil {
			return storage.ErrOperationNotFound
		}

		if err := pending.Delete([]byte(op.ID)); err != nil {
			return fmt.Errorf("failed to remove from pending: %w", err)
		}

		data, err := s.encode(op)
		if err != nil {
			return err
		}

		if err := tx.Bucket(bucketFailed).Put([]byte(op.ID), data); err != nil {
			return fmt.Errorf("failed to save to failed set: %w", err)
		}

		return nil
	})
	if err != nil {
		if err == storage.ErrOperationNotFound {
			return err
		}
		return fmt.Errorf("fail transaction failed: %w", err)
	}

	return nil
}

// RequeueFailed moves all failed operations back to the pending set with
// reset attempt counters. Original sequence numbers are kept so same-resource
// ordering survives the round-trip.
func (s *Storage) RequeueFailed(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var moved int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		failed := tx.Bucket(bucketFailed)
		pending := tx.Bucket(bucketPending)

		var ops []*models.Operation
		err := failed.ForEach(func(k, v []byte) error {
			var op models.Operation
			if err := s.decode(v, &op); err != nil {
				return err
			}
			ops = append(ops, &op)
			return nil
		})
		if err != nil {
			return err
		}

		for _, op := range ops {
			op.Attempts = 0
			op.LastError = ""
			op.NextAttemptAt = time.Time{}

			data, err := s.encode(op)
			if err != nil {
				return err
			}
			if err := pending.Put([]byte(op.ID), data); err != nil {
				return fmt.Errorf("failed to requeue operation: %w", err)
			}
			if err := failed.Delete([]byte(op.ID)); err != nil {
				return fmt.Errorf("failed to remove from failed set: %w", err)
			}
			if op.Seq > pending.Sequence() {
				if err := pending.SetSequence(op.Seq); err != nil {
					return fmt.Errorf("failed to advance sequence: %w", err)
				}
			}
			moved++
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("requeue transaction failed: %w", err)
	}

	return moved, nil
}
