package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/models"
)

// SaveResourceVersion records the last-known server version of a resource,
// keyed by "type/id".
func (s *Storage) SaveResourceVersion(ctx context.Context, v *models.ResourceVersion) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := s.encode(v)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVersions).Put([]byte(v.Key().String()), data)
	})
	if err != nil {
		return fmt.Errorf("version transaction failed: %w", err)
	}

	return nil
}

// GetResourceVersion retrieves the cached version for a resource.
func (s *Storage) GetResourceVersion(ctx context.Context, key models.ResourceKey) (*models.ResourceVersion, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var v *models.ResourceVersion

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketVersions).Get([]byte(key.String()))
		if data == nil {
			return storage.ErrVersionNotFound
		}

		v = &models.ResourceVersion{}
		return s.decode(data, v)
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Storage) listResourceVersions(tx *bbolt.Tx) ([]models.ResourceVersion, error) {
	var versions []models.ResourceVersion

	err := tx.Bucket(bucketVersions).ForEach(func(k, v []byte) error {
		var rv models.ResourceVersion
		if err := s.decode(v, &rv); err != nil {
			return err
		}
		versions = append(versions, rv)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}

	return versions, nil
}
