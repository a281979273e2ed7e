package sync

import "errors"

// Engine-level errors
var (
	// ErrOffline indicates a drain was requested or aborted because the
	// device has no connectivity.
	ErrOffline = errors.New("device is offline")

	// ErrNotTerminal indicates a conflict resolution with the "ask"
	// strategy, which only signals that a caller decision is required.
	ErrNotTerminal = errors.New("resolution strategy is not terminal")

	// ErrMergeResourceRequired indicates a merge resolution without the
	// caller-supplied merged resource.
	ErrMergeResourceRequired = errors.New("merge resolution requires a winning resource")
)
