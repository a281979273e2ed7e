package boltdb

import (
	"context"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/models"
)

// SaveConflict stores or updates a conflict record.
func (s *Storage) SaveConflict(ctx context.Context, c *models.Conflict) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := s.encode(c)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).Put([]byte(c.ID), data)
	})
	if err != nil {
		return fmt.Errorf("conflict transaction failed: %w", err)
	}

	return nil
}

// GetConflict retrieves a conflict by id.
func (s *Storage) GetConflict(ctx context.Context, id string) (*models.Conflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var c *models.Conflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get([]byte(id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		c = &models.Conflict{}
		return s.decode(data, c)
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ListConflicts returns unresolved conflicts when resolved is false, resolved
// ones (audit history) when true. Ordered by detection time.
func (s *Storage) ListConflicts(ctx context.Context, resolved bool) ([]*models.Conflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflicts []*models.Conflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var c models.Conflict
			if err := s.decode(v, &c); err != nil {
				return err
			}
			if c.Resolved() == resolved {
				conflicts = append(conflicts, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].DetectedAt.Before(conflicts[j].DetectedAt)
	})

	return conflicts, nil
}
