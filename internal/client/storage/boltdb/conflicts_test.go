package boltdb

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/models"
)

func testConflict(id, opID string, detectedAt time.Time) *models.Conflict {
	return &models.Conflict{
		ID:             id,
		OperationID:    opID,
		ResourceType:   "Patient",
		ResourceID:     "p-1",
		LocalVersion:   "3",
		RemoteVersion:  "5",
		LocalResource:  json.RawMessage(`{"name":"local"}`),
		RemoteResource: json.RawMessage(`{"name":"remote"}`),
		DetectedAt:     detectedAt,
	}
}

func TestSaveConflict_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	c := testConflict("c-1", "op-1", time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, c))

	got, err := store.GetConflict(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "op-1", got.OperationID)
	assert.Equal(t, "3", got.LocalVersion)
	assert.Equal(t, "5", got.RemoteVersion)
	assert.False(t, got.Resolved())
}

func TestGetConflict_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetConflict(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrConflictNotFound)
}

func TestListConflicts_FiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	base := time.Now().UTC()

	older := testConflict("c-older", "op-1", base.Add(-time.Hour))
	newer := testConflict("c-newer", "op-2", base)
	resolved := testConflict("c-resolved", "op-3", base.Add(-2*time.Hour))
	resolved.Resolution = &models.Resolution{
		Strategy:   models.StrategyRemoteWins,
		ResolvedAt: base,
	}

	for _, c := range []*models.Conflict{newer, resolved, older} {
		require.NoError(t, store.SaveConflict(ctx, c))
	}

	unresolved, err := store.ListConflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, unresolved, 2)
	assert.Equal(t, "c-older", unresolved[0].ID)
	assert.Equal(t, "c-newer", unresolved[1].ID)

	history, err := store.ListConflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "c-resolved", history[0].ID)
}

func TestSaveConflict_UpdateResolution(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	c := testConflict("c-1", "op-1", time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, c))

	c.Resolution = &models.Resolution{
		Strategy:        models.StrategyLocalWins,
		WinningResource: c.LocalResource,
		ResolvedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.SaveConflict(ctx, c))

	got, err := store.GetConflict(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, got.Resolved())
	assert.Equal(t, models.StrategyLocalWins, got.Resolution.Strategy)
}
