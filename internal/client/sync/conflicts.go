package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/client/transport"
	"github.com/openclinic/fhirsync/internal/models"
)

// handleConflict records a version conflict and suspends the operation. The
// server's rejection is authoritative regardless of what the local version
// cache believed. One conflicted operation never blocks operations against
// other resources; same-resource followers wait behind the suspended head.
func (s *Service) handleConflict(ctx context.Context, op *models.Operation, info *transport.ConflictInfo, now time.Time, res *Result) {
	c := &models.Conflict{
		ID:             uuid.NewString(),
		OperationID:    op.ID,
		ResourceType:   op.ResourceType,
		ResourceID:     op.ResourceID,
		LocalVersion:   op.BaseVersion,
		RemoteVersion:  info.RemoteVersion,
		LocalResource:  op.Payload,
		RemoteResource: info.RemoteResource,
		DetectedAt:     now,
	}

	s.mu.Lock()

	if err := s.store.SaveConflict(ctx, c); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to record conflict",
			"operation_id", op.ID,
			"error", err)
		return
	}

	op.ConflictID = c.ID
	op.Timestamp = now
	if err := s.store.UpdateOperation(ctx, op); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		s.logger.Error("failed to suspend conflicted operation",
			"operation_id", op.ID,
			"error", err)
	}

	// Refresh the cached version with what the server reported.
	if info.RemoteVersion != "" {
		v := &models.ResourceVersion{
			ResourceType: op.ResourceType,
			ResourceID:   op.ResourceID,
			Version:      info.RemoteVersion,
			UpdatedAt:    now,
		}
		if err := s.store.SaveResourceVersion(ctx, v); err != nil {
			s.logger.Warn("failed to cache remote version",
				"resource", op.Key().String(),
				"error", err)
		}
	}

	res.Conflicts++
	s.mu.Unlock()

	s.logger.Info("conflict detected",
		"conflict_id", c.ID,
		"resource", op.Key().String(),
		"local_version", c.LocalVersion,
		"remote_version", c.RemoteVersion)
	s.hub.emit(EventConflictDetected, c)

	// An enqueue-time hint resolves the conflict without caller involvement.
	// Merge cannot be automatic (it needs the merged resource) and ask means
	// wait for the caller.
	hint := models.ResolutionStrategy(op.Resolution)
	if hint == models.StrategyLocalWins || hint == models.StrategyRemoteWins {
		if err := s.ResolveConflict(ctx, c.ID, models.Resolution{Strategy: hint}); err != nil {
			s.logger.Warn("automatic conflict resolution failed",
				"conflict_id", c.ID,
				"strategy", string(hint),
				"error", err)
		}
	}
}

// Conflicts returns unresolved conflicts by default; resolved=true returns
// the audit history.
func (s *Service) Conflicts(ctx context.Context, resolved bool) ([]*models.Conflict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListConflicts(ctx, resolved)
}

// ResolveConflict applies a terminal resolution strategy to a conflict.
//
// Resolving an already-resolved conflict is a no-op returning nil, so a
// caller that lost the response to a first attempt can safely retry.
// Resolving a conflict whose underlying operation has since been deleted
// succeeds and only marks the conflict resolved.
func (s *Service) ResolveConflict(ctx context.Context, conflictID string, res models.Resolution) error {
	if res.Strategy == models.StrategyAsk {
		return ErrNotTerminal
	}
	if !res.Strategy.Valid() {
		return fmt.Errorf("invalid resolution strategy %q", res.Strategy)
	}
	if res.Strategy == models.StrategyMerge && len(res.WinningResource) == 0 {
		return ErrMergeResourceRequired
	}

	s.mu.Lock()

	c, err := s.store.GetConflict(ctx, conflictID)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to load conflict: %w", err)
	}
	if c.Resolved() {
		s.mu.Unlock()
		return nil
	}

	op, err := s.store.GetOperation(ctx, c.OperationID)
	if err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		s.mu.Unlock()
		return fmt.Errorf("failed to load operation: %w", err)
	}
	// op == nil: the operation was independently deleted; resolving is still
	// a success.

	now := s.now()
	winning := res.WinningResource

	switch res.Strategy {
	case models.StrategyLocalWins:
		winning = c.LocalResource
		if op != nil {
			s.releaseOperation(ctx, op, c.RemoteVersion)
		}

	case models.StrategyRemoteWins:
		winning = c.RemoteResource
		if op != nil {
			if err := s.store.DeleteOperation(ctx, op.ID); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
				s.mu.Unlock()
				return fmt.Errorf("failed to discard operation: %w", err)
			}
		}

	case models.StrategyMerge:
		if op != nil {
			op.Payload = res.WinningResource
			s.releaseOperation(ctx, op, c.RemoteVersion)
		}
	}

	// Whatever won, the server's version at conflict time is the new cached
	// base for this resource.
	if c.RemoteVersion != "" {
		v := &models.ResourceVersion{
			ResourceType: c.ResourceType,
			ResourceID:   c.ResourceID,
			Version:      c.RemoteVersion,
			UpdatedAt:    now,
		}
		if err := s.store.SaveResourceVersion(ctx, v); err != nil {
			s.logger.Warn("failed to cache resolved version",
				"resource", c.ResourceType+"/"+c.ResourceID,
				"error", err)
		}
	}

	c.Resolution = &models.Resolution{
		Strategy:        res.Strategy,
		WinningResource: winning,
		ResolvedAt:      now,
	}
	if err := s.store.SaveConflict(ctx, c); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save resolution: %w", err)
	}

	s.mu.Unlock()

	s.logger.Info("conflict resolved",
		"conflict_id", c.ID,
		"strategy", string(res.Strategy))
	s.hub.emit(EventConflictResolved, c)

	return nil
}

// releaseOperation lifts a suspension so the operation is dispatched again on
// the next drain, rebased on the server version observed at conflict time.
// Caller holds s.mu.
func (s *Service) releaseOperation(ctx context.Context, op *models.Operation, remoteVersion string) {
	op.ConflictID = ""
	op.BaseVersion = remoteVersion
	op.Attempts = 0
	op.NextAttemptAt = time.Time{}
	op.LastError = ""

	// The conflict proves the resource already exists remotely; resubmitting
	// as a create would trip the must-not-exist precondition again. Rebased
	// on the observed version, the payload goes out as an update.
	if op.Kind == models.KindCreate && remoteVersion != "" {
		op.Kind = models.KindUpdate
	}

	if err := s.store.UpdateOperation(ctx, op); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		s.logger.Error("failed to release operation",
			"operation_id", op.ID,
			"error", err)
	}
}
