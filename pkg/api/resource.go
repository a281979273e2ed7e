// Package api contains the wire types shared by the client transport and the
// server handlers.
package api

import "encoding/json"

// ResourceResponse is the body of a successful apply (200/201).
type ResourceResponse struct {
	Resource json.RawMessage `json:"resource,omitempty"` // Resource server's canonical resource after the apply
	Version  string          `json:"version"`            // Version server version token after the apply
}

// ConflictResponse is the body of a 409: the operation's assumed base version
// does not match the server's current version.
type ConflictResponse struct {
	Resource       json.RawMessage `json:"resource,omitempty"` // Resource server's current resource snapshot
	CurrentVersion string          `json:"current_version"`    // CurrentVersion server's current version token
	Message        string          `json:"message,omitempty"`  // Message human-readable description
}

// ErrorResponse is the body of non-conflict error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
