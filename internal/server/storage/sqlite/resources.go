package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openclinic/fhirsync/internal/server/storage"
)

// Interface guard
var _ storage.ResourceStore = (*Storage)(nil)

// GetResource retrieves a resource row, tombstones included.
func (s *Storage) GetResource(ctx context.Context, resourceType, resourceID string) (*storage.Resource, error) {
	query := `
		SELECT resource_type, resource_id, version, body, deleted, updated_at
		FROM resources
		WHERE resource_type = ? AND resource_id = ?
	`

	return s.scanResource(s.db.QueryRowContext(ctx, query, resourceType, resourceID))
}

// UpsertResource writes a resource body under an optimistic precondition.
// The whole check-and-write runs in one transaction; the single-writer
// connection pool keeps it serialized.
func (s *Storage) UpsertResource(ctx context.Context, resourceType, resourceID string, body json.RawMessage, expectedVersion *int64) (*storage.Resource, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	current, err := s.scanResource(tx.QueryRowContext(ctx, `
		SELECT resource_type, resource_id, version, body, deleted, updated_at
		FROM resources
		WHERE resource_type = ? AND resource_id = ?
	`, resourceType, resourceID))
	if err != nil && !errors.Is(err, storage.ErrResourceNotFound) {
		return nil, err
	}

	if err := checkPrecondition(current, expectedVersion); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &storage.Resource{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Body:         body,
		UpdatedAt:    now,
	}

	if current == nil {
		result.Version = 1
		_, err = tx.ExecContext(ctx, `
			INSERT INTO resources (resource_type, resource_id, version, body, deleted, updated_at)
			VALUES (?, ?, ?, ?, 0, ?)
		`, resourceType, resourceID, result.Version, []byte(body), now.Unix())
	} else {
		result.Version = current.Version + 1
		_, err = tx.ExecContext(ctx, `
			UPDATE resources
			SET version = ?, body = ?, deleted = 0, updated_at = ?
			WHERE resource_type = ? AND resource_id = ?
		`, result.Version, []byte(body), now.Unix(), resourceType, resourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write resource: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return result, nil
}

// DeleteResource soft-deletes a resource under the same precondition rules.
func (s *Storage) DeleteResource(ctx context.Context, resourceType, resourceID string, expectedVersion *int64) (*storage.Resource, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	current, err := s.scanResource(tx.QueryRowContext(ctx, `
		SELECT resource_type, resource_id, version, body, deleted, updated_at
		FROM resources
		WHERE resource_type = ? AND resource_id = ?
	`, resourceType, resourceID))
	if err != nil {
		return nil, err
	}

	if err := checkPrecondition(current, expectedVersion); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newVersion := current.Version + 1

	_, err = tx.ExecContext(ctx, `
		UPDATE resources
		SET version = ?, deleted = 1, updated_at = ?
		WHERE resource_type = ? AND resource_id = ?
	`, newVersion, now.Unix(), resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete resource: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	deleted := *current
	deleted.Version = newVersion
	deleted.Deleted = true
	deleted.UpdatedAt = now

	return &deleted, nil
}

// ListResources returns all non-deleted resources of a type.
func (s *Storage) ListResources(ctx context.Context, resourceType string) ([]*storage.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_type, resource_id, version, body, deleted, updated_at
		FROM resources
		WHERE resource_type = ? AND deleted = 0
		ORDER BY resource_id
	`, resourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	var resources []*storage.Resource
	for rows.Next() {
		r, err := scanResourceRow(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resources: %w", err)
	}

	return resources, nil
}

// checkPrecondition enforces the optimistic concurrency rules: nil applies
// unconditionally, 0 requires absence, anything else must match the live
// (non-deleted) current version.
func checkPrecondition(current *storage.Resource, expectedVersion *int64) error {
	if expectedVersion == nil {
		return nil
	}
	if *expectedVersion == 0 {
		if current != nil && !current.Deleted {
			return storage.ErrVersionMismatch
		}
		return nil
	}
	if current == nil || current.Deleted || current.Version != *expectedVersion {
		return storage.ErrVersionMismatch
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanResource(row *sql.Row) (*storage.Resource, error) {
	r, err := scanResourceRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrResourceNotFound
		}
		return nil, err
	}
	return r, nil
}

func scanResourceRow(row rowScanner) (*storage.Resource, error) {
	var (
		r         storage.Resource
		body      []byte
		deleted   int
		updatedAt int64
	)

	err := row.Scan(&r.ResourceType, &r.ResourceID, &r.Version, &body, &deleted, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}

	r.Body = json.RawMessage(body)
	r.Deleted = deleted != 0
	r.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &r, nil
}
