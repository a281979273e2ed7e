package models

import "time"

// ResourceVersion is the locally cached last-known server version of a
// resource. Used as a hint to short-circuit obviously stale operations;
// the server remains authoritative for conflict detection.
type ResourceVersion struct {
	UpdatedAt    time.Time `json:"updated_at"`    // UpdatedAt when the version was last observed
	ResourceType string    `json:"resource_type"` // ResourceType resource type
	ResourceID   string    `json:"resource_id"`   // ResourceID resource id
	Version      string    `json:"version"`       // Version opaque server version token
}

// Key returns the resource identity this version describes.
func (v *ResourceVersion) Key() ResourceKey {
	return ResourceKey{Type: v.ResourceType, ID: v.ResourceID}
}

// SyncMetadata is the full serializable sync state: the unit of
// Export/Import. Round-tripping it across a process restart must reproduce
// an equivalent pending-operation set, metadata included.
type SyncMetadata struct {
	ExportedAt        time.Time         `json:"exported_at"`                  // ExportedAt snapshot time
	LastSyncTimestamp time.Time         `json:"last_sync_timestamp,omitzero"` // LastSyncTimestamp completion time of the last successful drain
	SyncToken         string            `json:"sync_token,omitempty"`         // SyncToken opaque resumption cursor, empty when none
	ResourceVersions  []ResourceVersion `json:"resource_versions"`            // ResourceVersions cached server versions
	PendingOperations []Operation       `json:"pending_operations"`           // PendingOperations ordered pending queue
	FailedOperations  []Operation       `json:"failed_operations,omitempty"`  // FailedOperations abandoned operations retained for inspection
	Conflicts         []Conflict        `json:"conflicts,omitempty"`          // Conflicts unresolved and resolved conflicts
}

// SyncError is one bounded-log entry describing a per-operation failure.
type SyncError struct {
	Time         time.Time `json:"time"`          // Time when the failure was recorded
	OperationID  string    `json:"operation_id"`  // OperationID failed operation
	ResourceType string    `json:"resource_type"` // ResourceType target resource type
	ResourceID   string    `json:"resource_id"`   // ResourceID target resource id
	Message      string    `json:"message"`       // Message error description
}

// SyncStatus is a derived snapshot of engine state. Computed on demand from
// the operation store and conflict set, never persisted.
type SyncStatus struct {
	LastSyncAt        time.Time   `json:"last_sync_at,omitzero"` // LastSyncAt completion time of the last successful drain
	Errors            []SyncError `json:"errors"`                // Errors bounded list of recent per-operation failures
	PendingChanges    int         `json:"pending_changes"`       // PendingChanges operations awaiting delivery (suspended included)
	FailedChanges     int         `json:"failed_changes"`        // FailedChanges operations abandoned after exhausting retries
	ConflictedChanges int         `json:"conflicted_changes"`    // ConflictedChanges unresolved conflicts
	IsOnline          bool        `json:"is_online"`             // IsOnline current connectivity signal
	IsSyncing         bool        `json:"is_syncing"`            // IsSyncing a drain is in progress
}
