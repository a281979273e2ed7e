package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ResolutionHint is an optional strategy recorded at enqueue time that the
// caller wants applied automatically if the operation conflicts.
type ResolutionHint string

// ResolutionStrategy decides which side of a conflict wins.
type ResolutionStrategy string

const (
	// StrategyLocalWins re-submits the local version, bumping past the
	// remote version.
	StrategyLocalWins ResolutionStrategy = "local-wins"
	// StrategyRemoteWins discards the local operation and adopts the
	// remote resource as the new cached version.
	StrategyRemoteWins ResolutionStrategy = "remote-wins"
	// StrategyMerge submits a caller-supplied merged resource as the new
	// canonical version.
	StrategyMerge ResolutionStrategy = "merge"
	// StrategyAsk is not terminal: the operation stays suspended until the
	// caller resolves with one of the strategies above.
	StrategyAsk ResolutionStrategy = "ask"
)

// Valid reports whether s is one of the known strategies.
func (s ResolutionStrategy) Valid() bool {
	switch s {
	case StrategyLocalWins, StrategyRemoteWins, StrategyMerge, StrategyAsk:
		return true
	}
	return false
}

// Terminal reports whether s actually resolves a conflict. StrategyAsk only
// signals that a caller decision is required.
func (s ResolutionStrategy) Terminal() bool {
	return s.Valid() && s != StrategyAsk
}

// Resolution records the outcome of a resolved conflict.
type Resolution struct {
	ResolvedAt      time.Time          `json:"resolved_at"`                // ResolvedAt when the conflict was resolved
	Strategy        ResolutionStrategy `json:"strategy"`                   // Strategy applied strategy
	WinningResource json.RawMessage    `json:"winning_resource,omitempty"` // WinningResource resource adopted as canonical
}

// Conflict is a detected mismatch between the version a local operation
// assumed and the server's actual current version. Resolved conflicts are
// retained for audit.
type Conflict struct {
	DetectedAt     time.Time       `json:"detected_at"`               // DetectedAt when the mismatch was observed
	Resolution     *Resolution     `json:"resolution,omitempty"`      // Resolution nil while unresolved
	ID             string          `json:"id"`                        // ID unique identifier (UUID)
	OperationID    string          `json:"operation_id"`              // OperationID the suspended operation
	ResourceType   string          `json:"resource_type"`             // ResourceType conflicted resource type
	ResourceID     string          `json:"resource_id"`               // ResourceID conflicted resource id
	LocalVersion   string          `json:"local_version"`             // LocalVersion version the operation assumed
	RemoteVersion  string          `json:"remote_version"`            // RemoteVersion server's current version
	LocalResource  json.RawMessage `json:"local_resource,omitempty"`  // LocalResource local snapshot at conflict time
	RemoteResource json.RawMessage `json:"remote_resource,omitempty"` // RemoteResource server snapshot at conflict time
}

// Resolved reports whether the conflict has been resolved.
func (c *Conflict) Resolved() bool {
	return c.Resolution != nil
}

// Validate checks the structural invariants every persisted conflict must
// satisfy.
func (c *Conflict) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conflict id is empty")
	}
	if c.ResourceType == "" || c.ResourceID == "" {
		return fmt.Errorf("conflict %s: resource identity is incomplete", c.ID)
	}
	if c.DetectedAt.IsZero() {
		return fmt.Errorf("conflict %s: detected_at is zero", c.ID)
	}
	if c.Resolution != nil && !c.Resolution.Strategy.Terminal() {
		return fmt.Errorf("conflict %s: resolution strategy %q is not terminal", c.ID, c.Resolution.Strategy)
	}
	return nil
}
