package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/openclinic/fhirsync/internal/crypto"
	"github.com/openclinic/fhirsync/internal/models"
)

func newTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func testOperation(id, resourceType, resourceID string) *models.Operation {
	return &models.Operation{
		ID:           id,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Kind:         models.KindUpdate,
		Priority:     models.PriorityNormal,
		Payload:      json.RawMessage(`{"resourceType":"` + resourceType + `"}`),
		MaxAttempts:  3,
		CreatedAt:    time.Now().UTC(),
		Timestamp:    time.Now().UTC(),
	}
}

func TestNew_CreatesBuckets(t *testing.T) {
	store := newTestStorage(t)

	err := store.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketFailed, bucketVersions, bucketConflicts, bucketMeta} {
			require.NotNil(t, tx.Bucket(name), "bucket %s should exist", name)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), string([]byte{0}))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.EnqueueOperation(ctx, testOperation("op-1", "Patient", "p-1")))
	require.NoError(t, store.SaveResourceVersion(ctx, &models.ResourceVersion{
		ResourceType: "Patient", ResourceID: "p-1", Version: "3", UpdatedAt: time.Now(),
	}))
	require.NoError(t, store.SaveLastSync(ctx, time.Now()))

	require.NoError(t, store.Clear(ctx))

	ops, err := store.PendingOperations(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	last, err := store.LastSync(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	// The store stays usable after a clear
	require.NoError(t, store.EnqueueOperation(ctx, testOperation("op-2", "Patient", "p-1")))
}

func TestStorage_WithCipher(t *testing.T) {
	ctx := context.Background()

	key := make([]byte, crypto.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := crypto.NewCipher(key)
	require.NoError(t, err)

	store := newTestStorage(t, WithCipher(cipher))

	op := testOperation("op-1", "Patient", "p-1")
	require.NoError(t, store.EnqueueOperation(ctx, op))

	// Round trip through the cipher reproduces the operation
	got, err := store.GetOperation(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, op.Payload, got.Payload)

	// Raw stored bytes must not contain the plaintext payload
	err = store.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketPending).Get([]byte("op-1"))
		require.NotNil(t, raw)
		assert.False(t, bytes.Contains(raw, []byte("Patient")))
		return nil
	})
	require.NoError(t, err)
}
