package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/crypto"
)

var (
	// BoltDB bucket names
	bucketPending   = []byte("pending")
	bucketFailed    = []byte("failed")
	bucketVersions  = []byte("versions")
	bucketConflicts = []byte("conflicts")
	bucketMeta      = []byte("meta")
)

// Storage is the BoltDB-backed durable operation store. All mutations run
// inside bbolt write transactions, so a failed write leaves the store in its
// pre-write state.
type Storage struct {
	db     *bbolt.DB
	cipher *crypto.Cipher
}

// Option configures optional storage behavior.
type Option func(*Storage)

// WithCipher enables at-rest encryption of operation and conflict records.
func WithCipher(c *crypto.Cipher) Option {
	return func(s *Storage) {
		s.cipher = c
	}
}

// New creates a new BoltDB storage instance.
// dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketFailed, bucketVersions, bucketConflicts, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// encode marshals v to JSON and encrypts the record when a cipher is set.
func (s *Storage) encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	if s.cipher != nil {
		data, err = s.cipher.Encrypt(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt record: %w", err)
		}
	}
	return data, nil
}

// decode decrypts (when a cipher is set) and unmarshals a stored record.
func (s *Storage) decode(data []byte, v any) error {
	if s.cipher != nil {
		var err error
		data, err = s.cipher.Decrypt(data)
		if err != nil {
			return fmt.Errorf("failed to decrypt record: %w", err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

// Clear wipes all pending operations, failed operations, versions, conflicts
// and sync metadata. Used for resets and tests.
func (s *Storage) Clear(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketFailed, bucketVersions, bucketConflicts, bucketMeta} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("failed to delete %s bucket: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear transaction failed: %w", err)
	}

	return nil
}

// Interface guard
var _ storage.OperationStore = (*Storage)(nil)
