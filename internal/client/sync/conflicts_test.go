package sync

import (
	"context"
	"encoding/json"
	"fmt"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclinic/fhirsync/internal/client/transport"
	"github.com/openclinic/fhirsync/internal/models"
)

func TestSync_ConflictSuspendsOperation(t *testing.T) {
	ctx := context.Background()

	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			return &transport.SendResult{Conflict: &transport.ConflictInfo{
				RemoteVersion:  "8",
				RemoteResource: json.RawMessage(`{"name":"remote"}`),
			}}, nil
		},
	}
	svc, _, store := newTestEngine(t, sender, Config{})

	var detected *models.Conflict
	var mu gosync.Mutex
	svc.On(EventConflictDetected, func(payload any) {
		mu.Lock()
		detected, _ = payload.(*models.Conflict)
		mu.Unlock()
	})

	id, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`), WithBaseVersion("5"))
	require.NoError(t, err)

	require.NoError(t, svc.Sync(ctx))

	// The operation is suspended, not retried or dropped
	op, err := store.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.True(t, op.Suspended())

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingChanges)
	assert.Equal(t, 1, status.ConflictedChanges)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, detected)
	assert.Equal(t, "5", detected.LocalVersion)
	assert.Equal(t, "8", detected.RemoteVersion)
	assert.Equal(t, id, detected.OperationID)

	// A suspended operation is not redispatched
	require.NoError(t, svc.Sync(ctx))
	assert.Len(t, sender.SendCalls(), 1)
}

func TestSync_ConflictIsolation(t *testing.T) {
	ctx := context.Background()

	conflicted := map[string]bool{"p-3": true, "p-7": true}
	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			if conflicted[op.ResourceID] {
				return &transport.SendResult{Conflict: &transport.ConflictInfo{
					RemoteVersion:  "9",
					RemoteResource: json.RawMessage(`{}`),
				}}, nil
			}
			return &transport.SendResult{Version: "1"}, nil
		},
	}
	svc, _, _ := newTestEngine(t, sender, Config{})

	for i := 0; i < 10; i++ {
		_, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", fmt.Sprintf("p-%d", i),
			json.RawMessage(`{}`))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Sync(ctx))

	// Two conflicts; the other eight drained to completion
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.PendingChanges)
	assert.Equal(t, 2, status.ConflictedChanges)
	assert.Zero(t, status.FailedChanges)

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, conflicts, 2)
}

func TestResolveConflict_LocalWins(t *testing.T) {
	ctx := context.Background()

	var mu gosync.Mutex
	conflictOnce := true
	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			mu.Lock()
			defer mu.Unlock()
			if conflictOnce {
				conflictOnce = false
				return &transport.SendResult{Conflict: &transport.ConflictInfo{
					RemoteVersion:  "8",
					RemoteResource: json.RawMessage(`{"name":"remote"}`),
				}}, nil
			}
			return &transport.SendResult{Version: "9"}, nil
		},
	}
	svc, _, store := newTestEngine(t, sender, Config{})

	id, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`), WithBaseVersion("5"))
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyLocalWins}))

	// The operation is released and rebased on the server's version
	op, err := store.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.False(t, op.Suspended())
	assert.Equal(t, "8", op.BaseVersion)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.ConflictedChanges)

	// The next drain delivers the local version
	require.NoError(t, svc.Sync(ctx))
	assert.Len(t, sender.SendCalls(), 2)
	last := sender.SendCalls()[1]
	assert.Equal(t, "8", last.Op.BaseVersion)

	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)

	// The resolution is retained for audit
	history, err := svc.Conflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StrategyLocalWins, history[0].Resolution.Strategy)
	assert.Equal(t, json.RawMessage(`{"name":"local"}`), history[0].Resolution.WinningResource)
}

func TestResolveConflict_LocalWinsOnCreate(t *testing.T) {
	ctx := context.Background()

	// The server already holds the resource at version 3: creates are
	// rejected, and only an update built against "3" lands.
	var mu gosync.Mutex
	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			mu.Lock()
			defer mu.Unlock()
			if op.Kind == models.KindCreate || op.BaseVersion != "3" {
				return &transport.SendResult{Conflict: &transport.ConflictInfo{
					RemoteVersion:  "3",
					RemoteResource: json.RawMessage(`{"name":"remote"}`),
				}}, nil
			}
			return &transport.SendResult{Version: "4"}, nil
		},
	}
	svc, _, store := newTestEngine(t, sender, Config{})

	id, err := svc.QueueOperation(ctx, models.KindCreate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyLocalWins}))

	// The released operation resubmits as an update against the observed
	// version; a create would trip the must-not-exist precondition again.
	op, err := store.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.KindUpdate, op.Kind)
	assert.Equal(t, "3", op.BaseVersion)

	require.NoError(t, svc.Sync(ctx))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)
	assert.Zero(t, status.ConflictedChanges)

	// One conflict record total, not one per drain
	history, err := svc.Conflicts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSync_CreateConflictHintDelivers(t *testing.T) {
	ctx := context.Background()

	var mu gosync.Mutex
	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			mu.Lock()
			defer mu.Unlock()
			if op.Kind == models.KindCreate || op.BaseVersion != "3" {
				return &transport.SendResult{Conflict: &transport.ConflictInfo{
					RemoteVersion:  "3",
					RemoteResource: json.RawMessage(`{"name":"remote"}`),
				}}, nil
			}
			return &transport.SendResult{Version: "4"}, nil
		},
	}
	svc, _, _ := newTestEngine(t, sender, Config{})

	_, err := svc.QueueOperation(ctx, models.KindCreate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`),
		WithResolutionHint(models.ResolutionHint(models.StrategyLocalWins)))
	require.NoError(t, err)

	// First drain detects and auto-resolves; the second delivers the rebased
	// operation.
	require.NoError(t, svc.Sync(ctx))
	require.NoError(t, svc.Sync(ctx))

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)
	assert.Zero(t, status.ConflictedChanges)

	history, err := svc.Conflicts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, history, 1, "repeated drains must not mint fresh conflicts")
}

func TestResolveConflict_RemoteWins(t *testing.T) {
	ctx := context.Background()

	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			return &transport.SendResult{Conflict: &transport.ConflictInfo{
				RemoteVersion:  "8",
				RemoteResource: json.RawMessage(`{"name":"remote"}`),
			}}, nil
		},
	}
	svc, _, store := newTestEngine(t, sender, Config{})

	_, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`), WithBaseVersion("5"))
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyRemoteWins}))

	// The local operation is discarded and the remote version becomes the base
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)
	assert.Zero(t, status.ConflictedChanges)

	v, err := store.GetResourceVersion(ctx, models.ResourceKey{Type: "Patient", ID: "p-1"})
	require.NoError(t, err)
	assert.Equal(t, "8", v.Version)
}

func TestResolveConflict_Merge(t *testing.T) {
	ctx := context.Background()

	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			return &transport.SendResult{Conflict: &transport.ConflictInfo{
				RemoteVersion:  "8",
				RemoteResource: json.RawMessage(`{"name":"remote"}`),
			}}, nil
		},
	}
	svc, _, store := newTestEngine(t, sender, Config{})

	id, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`), WithBaseVersion("5"))
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	// Merge without a merged resource is rejected
	err = svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyMerge})
	assert.ErrorIs(t, err, ErrMergeResourceRequired)

	merged := json.RawMessage(`{"name":"merged"}`)
	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyMerge, WinningResource: merged}))

	// The released operation now carries the merged payload
	op, err := store.GetOperation(ctx, id)
	require.NoError(t, err)
	assert.False(t, op.Suspended())
	assert.Equal(t, merged, op.Payload)
	assert.Equal(t, "8", op.BaseVersion)
}

func TestResolveConflict_AskIsNotTerminal(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t, okSender(), Config{})

	err := svc.ResolveConflict(ctx, "c-any", models.Resolution{Strategy: models.StrategyAsk})
	assert.ErrorIs(t, err, ErrNotTerminal)

	err = svc.ResolveConflict(ctx, "c-any", models.Resolution{Strategy: "coin-flip"})
	assert.Error(t, err)
}

func TestResolveConflict_Idempotent(t *testing.T) {
	ctx := context.Background()

	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			return &transport.SendResult{Conflict: &transport.ConflictInfo{
				RemoteVersion:  "8",
				RemoteResource: json.RawMessage(`{"name":"remote"}`),
			}}, nil
		},
	}
	svc, _, _ := newTestEngine(t, sender, Config{})

	_, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`), WithBaseVersion("5"))
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	conflicts, err := svc.Conflicts(ctx, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyRemoteWins}))

	// A retry of the same resolution is a quiet no-op
	require.NoError(t, svc.ResolveConflict(ctx, conflicts[0].ID,
		models.Resolution{Strategy: models.StrategyLocalWins}))

	history, err := svc.Conflicts(ctx, true)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StrategyRemoteWins, history[0].Resolution.Strategy)
}

func TestSync_ResolutionHintAutoResolves(t *testing.T) {
	ctx := context.Background()

	var mu gosync.Mutex
	conflictOnce := true
	sender := &transport.SenderMock{
		SendFunc: func(ctx context.Context, op *models.Operation) (*transport.SendResult, error) {
			mu.Lock()
			defer mu.Unlock()
			if conflictOnce {
				conflictOnce = false
				return &transport.SendResult{Conflict: &transport.ConflictInfo{
					RemoteVersion:  "8",
					RemoteResource: json.RawMessage(`{"name":"remote"}`),
				}}, nil
			}
			return &transport.SendResult{Version: "9"}, nil
		},
	}
	svc, _, _ := newTestEngine(t, sender, Config{})

	resolved := make(chan struct{})
	svc.On(EventConflictResolved, func(payload any) {
		close(resolved)
	})

	_, err := svc.QueueOperation(ctx, models.KindUpdate, "Patient", "p-1",
		json.RawMessage(`{"name":"local"}`),
		WithBaseVersion("5"),
		WithResolutionHint(models.ResolutionHint(models.StrategyLocalWins)))
	require.NoError(t, err)

	require.NoError(t, svc.Sync(ctx))

	select {
	case <-resolved:
	default:
		t.Fatal("hint did not auto-resolve the conflict")
	}

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.ConflictedChanges)

	// The released operation delivers on the next drain
	require.NoError(t, svc.Sync(ctx))
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)
}
