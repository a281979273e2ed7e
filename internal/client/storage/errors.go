package storage

import "errors"

// Common client storage errors
var (
	// ErrOperationNotFound indicates that no operation exists with the given id
	ErrOperationNotFound = errors.New("operation not found")

	// ErrConflictNotFound indicates that no conflict exists with the given id
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrVersionNotFound indicates that no cached version exists for the resource
	ErrVersionNotFound = errors.New("resource version not found")

	// ErrDuplicateOperation indicates an enqueue with an id that is already queued
	ErrDuplicateOperation = errors.New("operation already queued")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
