// Package transport sends queued operations to the remote server over HTTP.
// Operation kinds map onto REST verbs; optimistic concurrency rides on
// If-Match version preconditions, with 409 responses carrying the server's
// current version and resource.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openclinic/fhirsync/internal/models"
	"github.com/openclinic/fhirsync/pkg/api"
)

// ErrPermanent marks a server rejection that retrying the same request cannot
// fix (malformed payload, failed validation). The engine moves such
// operations straight to the failed set instead of burning the retry budget.
var ErrPermanent = errors.New("permanent failure")

//go:generate moq -out client_mock.go . Sender

// Sender delivers a single operation to the remote server. The engine treats
// it as stateless: no connection affinity, safe to share.
type Sender interface {
	// Send applies one operation remotely. A version mismatch is reported
	// via SendResult.Conflict, not an error. Errors wrapping ErrPermanent
	// are rejections a retry cannot fix; all other errors are transient
	// (network, timeout, 5xx) and eligible for retry.
	Send(ctx context.Context, op *models.Operation) (*SendResult, error)
}

// SendResult is the outcome of a successful exchange with the server.
type SendResult struct {
	Conflict *ConflictInfo   // Conflict non-nil when the server rejected the assumed base version
	Resource json.RawMessage // Resource server's canonical resource after the apply
	Version  string          // Version server version token after the apply
}

// ConflictInfo carries the server's side of a version conflict.
type ConflictInfo struct {
	RemoteResource json.RawMessage // RemoteResource server's current snapshot
	RemoteVersion  string          // RemoteVersion server's current version token
}

// Client is the HTTP implementation of Sender.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send applies one operation remotely.
func (c *Client) Send(ctx context.Context, op *models.Operation) (*SendResult, error) {
	var (
		method string
		body   io.Reader
	)

	url := fmt.Sprintf("%s/api/v1/fhir/%s/%s", c.baseURL, op.ResourceType, op.ResourceID)

	switch op.Kind {
	case models.KindCreate:
		method = http.MethodPut
		body = bytes.NewReader(op.Payload)
	case models.KindUpdate:
		method = http.MethodPut
		body = bytes.NewReader(op.Payload)
	case models.KindPatch:
		method = http.MethodPatch
		body = bytes.NewReader(op.Payload)
	case models.KindDelete:
		method = http.MethodDelete
	default:
		return nil, fmt.Errorf("unsupported operation kind %q", op.Kind)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	// Creates assert "resource must not exist yet"; everything else asserts
	// the version the operation was built against.
	if op.Kind != models.KindCreate && op.BaseVersion != "" {
		req.Header.Set("If-Match", op.BaseVersion)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var rr api.ResourceResponse
		if err := json.Unmarshal(respBody, &rr); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &SendResult{Version: rr.Version, Resource: rr.Resource}, nil

	case resp.StatusCode == http.StatusNoContent:
		// Delete acknowledged
		return &SendResult{}, nil

	case resp.StatusCode == http.StatusNotFound && op.Kind == models.KindDelete:
		// Already gone; deleting twice is not a failure
		return &SendResult{}, nil

	case resp.StatusCode == http.StatusConflict:
		var cr api.ConflictResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			return nil, fmt.Errorf("failed to decode conflict response: %w", err)
		}
		return &SendResult{Conflict: &ConflictInfo{
			RemoteVersion:  cr.CurrentVersion,
			RemoteResource: cr.Resource,
		}}, nil

	default:
		msg := fmt.Sprintf("server returned %d", resp.StatusCode)
		var er api.ErrorResponse
		if err := json.Unmarshal(respBody, &er); err == nil && er.Error != "" {
			msg = fmt.Sprintf("server returned %d: %s", resp.StatusCode, er.Error)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrPermanent, msg)
		}
		return nil, errors.New(msg)
	}
}

// Interface guard
var _ Sender = (*Client)(nil)
