package storage

import "errors"

// Common server storage errors
var (
	// ErrResourceNotFound indicates that no resource exists with the given identity
	ErrResourceNotFound = errors.New("resource not found")

	// ErrVersionMismatch indicates that the write's version precondition failed
	ErrVersionMismatch = errors.New("resource version mismatch")
)
