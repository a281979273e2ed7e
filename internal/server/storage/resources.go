package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Resource is one versioned server-side resource row. Version starts at 1 on
// create and increments on every accepted write; clients treat it as opaque.
type Resource struct {
	UpdatedAt    time.Time       // UpdatedAt last accepted write
	ResourceType string          // ResourceType FHIR resource type
	ResourceID   string          // ResourceID resource id
	Body         json.RawMessage // Body resource body
	Version      int64           // Version monotonically increasing version
	Deleted      bool            // Deleted soft-delete marker
}

// ResourceStore persists versioned resources with optimistic concurrency.
type ResourceStore interface {
	// GetResource retrieves a resource (deleted ones included, so conflict
	// responses can report tombstones).
	// Returns ErrResourceNotFound if no row exists.
	GetResource(ctx context.Context, resourceType, resourceID string) (*Resource, error)

	// UpsertResource writes a resource body under an optimistic precondition:
	// expectedVersion nil applies unconditionally, 0 requires the resource to
	// not exist yet, any other value must equal the current version.
	// Returns ErrVersionMismatch when the precondition fails.
	UpsertResource(ctx context.Context, resourceType, resourceID string, body json.RawMessage, expectedVersion *int64) (*Resource, error)

	// DeleteResource soft-deletes a resource under the same precondition
	// rules. Deleting a missing resource returns ErrResourceNotFound.
	DeleteResource(ctx context.Context, resourceType, resourceID string, expectedVersion *int64) (*Resource, error)

	// ListResources returns all non-deleted resources of a type.
	ListResources(ctx context.Context, resourceType string) ([]*Resource, error)
}
