package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationKind identifies the mutation a queued operation performs
// against the remote resource.
type OperationKind string

const (
	KindCreate OperationKind = "create"
	KindUpdate OperationKind = "update"
	KindDelete OperationKind = "delete"
	KindPatch  OperationKind = "patch"
)

// Valid reports whether k is one of the known operation kinds.
func (k OperationKind) Valid() bool {
	switch k {
	case KindCreate, KindUpdate, KindDelete, KindPatch:
		return true
	}
	return false
}

// Priority determines drain order across resources. Higher priorities are
// dispatched first; ties are broken by enqueue order.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityNormal   Priority = "normal"
	PriorityLow      Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Rank maps the priority to a comparable ordinal (critical highest).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 1
	case PriorityLow:
		return 0
	}
	return 1
}

// ResourceKey identifies a remote resource by type and id.
// Operations sharing a key must be applied in enqueue order.
type ResourceKey struct {
	Type string
	ID   string
}

func (k ResourceKey) String() string {
	return k.Type + "/" + k.ID
}

// Operation is a single pending mutation awaiting delivery to the server.
type Operation struct {
	CreatedAt     time.Time         `json:"created_at"`                // CreatedAt enqueue time, used for ordering
	Timestamp     time.Time         `json:"timestamp"`                 // Timestamp last attempt (or enqueue) time
	NextAttemptAt time.Time         `json:"next_attempt_at,omitzero"`  // NextAttemptAt earliest eligible retry time
	Metadata      map[string]string `json:"metadata,omitempty"`        // Metadata caller context, preserved verbatim across export/import
	ID            string            `json:"id"`                        // ID unique identifier (UUID)
	ResourceType  string            `json:"resource_type"`             // ResourceType FHIR resource type, e.g. "Patient"
	ResourceID    string            `json:"resource_id"`               // ResourceID target resource id
	BaseVersion   string            `json:"base_version,omitempty"`    // BaseVersion server version this operation assumed
	ConflictID    string            `json:"conflict_id,omitempty"`     // ConflictID non-empty while suspended on an unresolved conflict
	LastError     string            `json:"last_error,omitempty"`      // LastError message from the most recent failed attempt
	Kind          OperationKind     `json:"kind"`                      // Kind create | update | delete | patch
	Priority      Priority          `json:"priority"`                  // Priority drain ordering
	Resolution    ResolutionHint    `json:"resolution_hint,omitempty"` // Resolution optional conflict-resolution hint set at enqueue
	Payload       json.RawMessage   `json:"payload,omitempty"`         // Payload resource body (create/update/patch) or reference (delete)
	Seq           uint64            `json:"seq"`                       // Seq monotonic enqueue sequence, orders same-resource operations
	Attempts      int               `json:"attempts"`                  // Attempts delivery attempts made so far
	MaxAttempts   int               `json:"max_attempts"`              // MaxAttempts attempts before the operation is abandoned
}

// Key returns the resource identity this operation targets.
func (o *Operation) Key() ResourceKey {
	return ResourceKey{Type: o.ResourceType, ID: o.ResourceID}
}

// Suspended reports whether the operation is parked on an unresolved conflict.
func (o *Operation) Suspended() bool {
	return o.ConflictID != ""
}

// Exhausted reports whether the operation has used up its retry budget.
func (o *Operation) Exhausted() bool {
	return o.Attempts >= o.MaxAttempts
}

// Clone creates a deep copy of the operation.
func (o *Operation) Clone() *Operation {
	cp := *o
	if o.Payload != nil {
		cp.Payload = make(json.RawMessage, len(o.Payload))
		copy(cp.Payload, o.Payload)
	}
	if o.Metadata != nil {
		cp.Metadata = make(map[string]string, len(o.Metadata))
		for k, v := range o.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

// Validate checks the structural invariants every persisted operation must
// satisfy. Import uses it to quarantine malformed records.
func (o *Operation) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("operation id is empty")
	}
	if !o.Kind.Valid() {
		return fmt.Errorf("invalid operation kind %q", o.Kind)
	}
	if o.ResourceType == "" {
		return fmt.Errorf("operation %s: resource type is empty", o.ID)
	}
	if !o.Priority.Valid() {
		return fmt.Errorf("operation %s: invalid priority %q", o.ID, o.Priority)
	}
	if o.CreatedAt.IsZero() {
		return fmt.Errorf("operation %s: created_at is zero", o.ID)
	}
	if o.MaxAttempts <= 0 {
		return fmt.Errorf("operation %s: max_attempts must be positive", o.ID)
	}
	return nil
}
