package storage

import (
	"context"
	"time"

	"github.com/openclinic/fhirsync/internal/models"
)

//go:generate moq -out store_mock.go . OperationStore

// OperationStore persists the pending-operation queue, the resource version
// cache and the conflict list across process lifetimes. Implementations must
// serialize mutations internally and leave the store unchanged when a write
// fails.
type OperationStore interface {
	// EnqueueOperation appends an operation to the durable queue, assigning
	// its sequence number. Returns ErrDuplicateOperation if the id is
	// already queued.
	EnqueueOperation(ctx context.Context, op *models.Operation) error

	// GetOperation retrieves a pending operation by id.
	// Returns ErrOperationNotFound if it doesn't exist.
	GetOperation(ctx context.Context, id string) (*models.Operation, error)

	// PendingOperations returns a snapshot of the pending queue ordered by
	// (priority desc, sequence asc).
	PendingOperations(ctx context.Context) ([]*models.Operation, error)

	// FailedOperations returns operations abandoned after exhausting their
	// retry budget.
	FailedOperations(ctx context.Context) ([]*models.Operation, error)

	// UpdateOperation overwrites a pending operation in place.
	// Returns ErrOperationNotFound if it is no longer pending.
	UpdateOperation(ctx context.Context, op *models.Operation) error

	// DeleteOperation removes a pending operation.
	// Returns ErrOperationNotFound if it is no longer pending.
	DeleteOperation(ctx context.Context, id string) error

	// FailOperation atomically moves an operation from the pending set to
	// the failed set.
	FailOperation(ctx context.Context, op *models.Operation) error

	// RequeueFailed moves all failed operations back to the pending set
	// with reset attempt counters. Returns the number requeued.
	RequeueFailed(ctx context.Context) (int, error)

	// SaveResourceVersion records the last-known server version of a resource.
	SaveResourceVersion(ctx context.Context, v *models.ResourceVersion) error

	// GetResourceVersion retrieves the cached version for a resource.
	// Returns ErrVersionNotFound if none has been observed.
	GetResourceVersion(ctx context.Context, key models.ResourceKey) (*models.ResourceVersion, error)

	// SaveConflict stores or updates a conflict record.
	SaveConflict(ctx context.Context, c *models.Conflict) error

	// GetConflict retrieves a conflict by id.
	// Returns ErrConflictNotFound if it doesn't exist.
	GetConflict(ctx context.Context, id string) (*models.Conflict, error)

	// ListConflicts returns unresolved conflicts when resolved is false,
	// resolved ones (audit history) when true.
	ListConflicts(ctx context.Context, resolved bool) ([]*models.Conflict, error)

	// SaveLastSync records the completion time of the last successful drain.
	SaveLastSync(ctx context.Context, t time.Time) error

	// LastSync returns the completion time of the last successful drain,
	// zero if none.
	LastSync(ctx context.Context) (time.Time, error)

	// SaveSyncToken stores the opaque resumption cursor. An empty token
	// clears it.
	SaveSyncToken(ctx context.Context, token string) error

	// SyncToken returns the stored resumption cursor, empty if none.
	SyncToken(ctx context.Context) (string, error)

	// Export serializes the full sync state.
	Export(ctx context.Context) (*models.SyncMetadata, error)

	// Import restores state from a snapshot, quarantining malformed records
	// so a single bad entry does not prevent valid siblings from loading.
	Import(ctx context.Context, data *models.SyncMetadata) (*ImportResult, error)

	// Clear wipes all pending operations, versions and conflicts.
	// Used for resets and tests.
	Clear(ctx context.Context) error

	// Close releases the underlying database.
	Close() error
}

// ImportResult reports what an Import call restored and what it rejected.
type ImportResult struct {
	Quarantined []string // Quarantined validation messages for rejected records
	Operations  int      // Operations pending operations restored
	Failed      int      // Failed failed operations restored
	Versions    int      // Versions resource versions restored
	Conflicts   int      // Conflicts conflict records restored
}
