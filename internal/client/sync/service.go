// Package sync implements the offline synchronization engine: a durable,
// resumable, conflict-aware operation queue that reconciles locally-made
// changes to FHIR resources with a remote server under intermittent
// connectivity.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/openclinic/fhirsync/internal/client/storage"
	"github.com/openclinic/fhirsync/internal/client/transport"
	"github.com/openclinic/fhirsync/internal/models"
)

// Service is the sync engine. It owns the operation queue: callers enqueue
// mutations while the engine drains them against the remote server, applying
// priority ordering, batching, retry backoff and conflict handoff. All queue
// mutations are serialized behind one mutex; sending to the server is the
// only blocking point and happens outside it.
type Service struct {
	store   storage.OperationStore
	sender  transport.Sender
	network NetworkMonitor
	logger  *slog.Logger
	hub     *hub
	now     func() time.Time
	cfg     Config

	mu      gosync.Mutex // serializes queue mutations and run bookkeeping
	run     *drainRun    // non-nil while a drain is active
	pause   context.CancelFunc
	errLog  []models.SyncError
	stopNet func()
}

// drainRun lets concurrent Sync callers join the in-flight run instead of
// starting a second drain against the same queue.
type drainRun struct {
	done chan struct{}
	err  error
}

// Result summarizes one drain run.
type Result struct {
	StartedAt time.Time     // StartedAt when the run began
	Duration  time.Duration // Duration wall time of the run
	Sent      int           // Sent operations acknowledged by the server
	Conflicts int           // Conflicts version conflicts detected
	Failed    int           // Failed operations abandoned after exhausting retries
	Retried   int           // Retried transient failures left pending for a later run
}

// Option configures optional service behavior.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to step through backoff
// windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the sync engine. Construction is side-effect-free: no
// storage or network access happens until a method is called, so test and
// server-side environments can substitute fakes freely.
func NewService(store storage.OperationStore, sender transport.Sender, network NetworkMonitor, logger *slog.Logger, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:   store,
		sender:  sender,
		network: network,
		logger:  logger,
		hub:     newHub(logger),
		now:     time.Now,
		cfg:     cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the connectivity signal: on the offline-to-online transition
// the engine triggers a drain when SyncOnReconnect is enabled.
func (s *Service) Start(ctx context.Context) {
	s.stopNet = s.network.Subscribe(func(online bool) {
		if !online || !s.cfg.SyncOnReconnect {
			return
		}
		go func() {
			if err := s.Sync(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("reconnect sync failed", "error", err)
			}
		}()
	})
}

// Close detaches the connectivity signal. The operation store is owned by the
// caller and closed separately.
func (s *Service) Close() {
	if s.stopNet != nil {
		s.stopNet()
		s.stopNet = nil
	}
}

// On subscribes a handler to a lifecycle event.
func (s *Service) On(event Event, fn Handler) Subscription {
	return s.hub.on(event, fn)
}

// Off removes a previously registered handler.
func (s *Service) Off(sub Subscription) {
	s.hub.off(sub)
}

// queueOptions collects per-operation enqueue options.
type queueOptions struct {
	metadata       map[string]string
	priority       models.Priority
	hint           models.ResolutionHint
	baseVersion    string
	maxAttempts    int
	baseVersionSet bool
}

// QueueOption configures a single enqueued operation.
type QueueOption func(*queueOptions)

// WithPriority sets the drain priority (default normal).
func WithPriority(p models.Priority) QueueOption {
	return func(o *queueOptions) { o.priority = p }
}

// WithMaxAttempts overrides the retry budget for this operation.
func WithMaxAttempts(n int) QueueOption {
	return func(o *queueOptions) { o.maxAttempts = n }
}

// WithMetadata attaches caller context that survives export/import verbatim.
func WithMetadata(md map[string]string) QueueOption {
	return func(o *queueOptions) { o.metadata = md }
}

// WithResolutionHint records a strategy to apply automatically if the
// operation conflicts. Merge cannot be automatic (it needs a merged
// resource); ask is the default behavior.
func WithResolutionHint(h models.ResolutionHint) QueueOption {
	return func(o *queueOptions) { o.hint = h }
}

// WithBaseVersion pins the server version this operation was built against,
// overriding the cached hint.
func WithBaseVersion(v string) QueueOption {
	return func(o *queueOptions) {
		o.baseVersion = v
		o.baseVersionSet = true
	}
}

// QueueOperation constructs an operation and appends it to the durable queue.
// It never touches the network; a store write failure is returned loudly
// rather than silently dropping the mutation. Operations enqueued while a
// drain is in progress become visible to that same drain on its next batch.
func (s *Service) QueueOperation(ctx context.Context, kind models.OperationKind, resourceType, resourceID string, payload json.RawMessage, opts ...QueueOption) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid operation kind %q", kind)
	}
	if resourceType == "" || resourceID == "" {
		return "", fmt.Errorf("resource type and id are required")
	}

	o := queueOptions{priority: models.PriorityNormal, maxAttempts: s.cfg.MaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.priority.Valid() {
		return "", fmt.Errorf("invalid priority %q", o.priority)
	}
	if o.maxAttempts <= 0 {
		return "", fmt.Errorf("max attempts must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	baseVersion := o.baseVersion
	if !o.baseVersionSet && kind != models.KindCreate {
		// The cached version is only a hint; the server stays authoritative.
		if v, err := s.store.GetResourceVersion(ctx, models.ResourceKey{Type: resourceType, ID: resourceID}); err == nil {
			baseVersion = v.Version
		} else if !errors.Is(err, storage.ErrVersionNotFound) {
			return "", fmt.Errorf("failed to read version cache: %w", err)
		}
	}

	now := s.now()
	op := &models.Operation{
		ID:           uuid.NewString(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Kind:         kind,
		Payload:      payload,
		Priority:     o.priority,
		MaxAttempts:  o.maxAttempts,
		Metadata:     o.metadata,
		Resolution:   o.hint,
		BaseVersion:  baseVersion,
		CreatedAt:    now,
		Timestamp:    now,
	}

	if err := s.store.EnqueueOperation(ctx, op); err != nil {
		return "", fmt.Errorf("failed to queue operation: %w", err)
	}

	s.logger.Debug("operation queued",
		"operation_id", op.ID,
		"kind", string(kind),
		"resource", op.Key().String(),
		"priority", string(op.Priority))

	return op.ID, nil
}

// Sync drains the pending queue. At most one drain runs at a time: a call
// made while another drain is active joins that run and returns its error.
// Per-operation failures and conflicts are partial success and do not fail
// the call; only whole-run failures (offline, store unavailable,
// cancellation) do.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	if s.run != nil {
		r := s.run
		s.mu.Unlock()
		select {
		case <-r.done:
			return r.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !s.network.IsOnline() {
		s.mu.Unlock()
		return ErrOffline
	}

	r := &drainRun{done: make(chan struct{})}
	s.run = r
	runCtx, cancel := context.WithCancel(ctx)
	s.pause = cancel
	s.mu.Unlock()

	err := s.drain(runCtx)

	s.mu.Lock()
	s.run = nil
	s.pause = nil
	s.mu.Unlock()
	cancel()

	r.err = err
	close(r.done)

	return err
}

// SyncNow is the immediate variant of Sync; it shares the same single-flight
// semantics.
func (s *Service) SyncNow(ctx context.Context) error {
	return s.Sync(ctx)
}

// Pause cancels the active drain, if any. The operation in flight completes
// or fails normally; no new operations are dispatched afterwards. Progress
// already made stays committed, and the next Sync resumes where the queue
// left off.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pause != nil {
		s.pause()
	}
}

// drain runs one complete pass over the eligible pending operations. It
// re-snapshots the queue between batches, so work enqueued mid-run is
// serviced in the same run when priority dictates.
func (s *Service) drain(ctx context.Context) error {
	start := s.now()
	res := &Result{StartedAt: start}
	s.hub.emit(EventSyncStarted, start)

	s.logger.Info("starting drain")

	// Each operation gets exactly one attempt per run; transient failures
	// come back through their backoff window on a later run. The set also
	// bounds the loop: every batch carries at least one fresh operation.
	dispatched := make(map[string]bool)

	for {
		batch, err := s.nextBatch(ctx, dispatched)
		if err != nil {
			s.hub.emit(EventSyncError, err)
			return err
		}
		if len(batch) == 0 {
			break
		}

		for _, op := range batch {
			if err := ctx.Err(); err != nil {
				s.logger.Info("drain cancelled", "sent", res.Sent)
				s.hub.emit(EventSyncError, err)
				return err
			}
			// Abort the whole run rather than draining into a known-failing
			// network; acknowledged operations stay committed.
			if !s.network.IsOnline() {
				s.logger.Warn("went offline mid-drain", "sent", res.Sent)
				s.hub.emit(EventSyncError, ErrOffline)
				return ErrOffline
			}

			dispatched[op.ID] = true
			s.dispatch(ctx, op, res)
		}
	}

	now := s.now()
	if err := s.store.SaveLastSync(ctx, now); err != nil {
		s.logger.Warn("failed to save last sync timestamp", "error", err)
	}

	res.Duration = now.Sub(start)
	s.logger.Info("drain completed",
		"sent", res.Sent,
		"conflicts", res.Conflicts,
		"failed", res.Failed,
		"retried", res.Retried,
		"duration", res.Duration)
	s.hub.emit(EventSyncCompleted, res)

	return nil
}

// nextBatch snapshots the eligible pending operations, bounded by BatchSize.
// Only the head (lowest sequence) operation of each resource is dispatchable,
// which keeps same-resource operations in enqueue order even when their
// priorities differ; heads are ordered (priority desc, sequence asc).
// Operations already dispatched this run are excluded.
func (s *Service) nextBatch(ctx context.Context, dispatched map[string]bool) ([]*models.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops, err := s.store.PendingOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("store unavailable: %w", err)
	}

	headSeq := make(map[models.ResourceKey]uint64, len(ops))
	for _, op := range ops {
		if cur, ok := headSeq[op.Key()]; !ok || op.Seq < cur {
			headSeq[op.Key()] = op.Seq
		}
	}

	now := s.now()
	var batch []*models.Operation
	for _, op := range ops {
		if op.Seq != headSeq[op.Key()] {
			continue
		}
		if dispatched[op.ID] {
			continue
		}
		if op.Suspended() {
			continue
		}
		if !op.NextAttemptAt.IsZero() && op.NextAttemptAt.After(now) {
			continue
		}
		batch = append(batch, op)
		if len(batch) >= s.cfg.BatchSize {
			break
		}
	}

	return batch, nil
}

// dispatch sends one operation and applies the outcome.
func (s *Service) dispatch(ctx context.Context, op *models.Operation, res *Result) {
	result, err := s.sender.Send(ctx, op)
	now := s.now()

	if err != nil {
		s.handleFailure(ctx, op, err, now, res)
		return
	}
	if result.Conflict != nil {
		s.handleConflict(ctx, op, result.Conflict, now, res)
		return
	}

	s.handleSuccess(ctx, op, result, now, res)
}

// handleSuccess removes an acknowledged operation and refreshes the cached
// resource version. An acknowledged operation is never resent.
func (s *Service) handleSuccess(ctx context.Context, op *models.Operation, result *transport.SendResult, now time.Time, res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteOperation(ctx, op.ID); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		s.logger.Error("failed to remove acknowledged operation",
			"operation_id", op.ID,
			"error", err)
	}

	if result.Version != "" {
		v := &models.ResourceVersion{
			ResourceType: op.ResourceType,
			ResourceID:   op.ResourceID,
			Version:      result.Version,
			UpdatedAt:    now,
		}
		if err := s.store.SaveResourceVersion(ctx, v); err != nil {
			s.logger.Warn("failed to cache resource version",
				"resource", op.Key().String(),
				"error", err)
		}
	}

	res.Sent++
}

// handleFailure counts a failed attempt. Transient failures under budget stay
// pending behind an exponential backoff window; permanent rejections and
// exhausted budgets move the operation to the failed set and record an error
// entry. There is no busy-retry within the same drain pass.
func (s *Service) handleFailure(ctx context.Context, op *models.Operation, sendErr error, now time.Time, res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op.Attempts++
	op.Timestamp = now
	op.LastError = sendErr.Error()

	if errors.Is(sendErr, transport.ErrPermanent) || op.Exhausted() {
		if err := s.store.FailOperation(ctx, op); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
			s.logger.Error("failed to move operation to failed set",
				"operation_id", op.ID,
				"error", err)
			return
		}
		s.recordError(models.SyncError{
			Time:         now,
			OperationID:  op.ID,
			ResourceType: op.ResourceType,
			ResourceID:   op.ResourceID,
			Message:      sendErr.Error(),
		})
		s.logger.Warn("operation abandoned",
			"operation_id", op.ID,
			"attempts", op.Attempts,
			"error", sendErr)
		res.Failed++
		return
	}

	op.NextAttemptAt = now.Add(s.backoffDelay(op.Attempts))
	if err := s.store.UpdateOperation(ctx, op); err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		s.logger.Error("failed to record attempt",
			"operation_id", op.ID,
			"error", err)
		return
	}

	s.logger.Debug("operation will retry",
		"operation_id", op.ID,
		"attempts", op.Attempts,
		"next_attempt_at", op.NextAttemptAt,
		"error", sendErr)
	res.Retried++
}

// backoffDelay computes the exponential backoff window after the given number
// of attempts.
func (s *Service) backoffDelay(attempts int) time.Duration {
	b := retry.WithCappedDuration(s.cfg.RetryMaxDelay, retry.NewExponential(s.cfg.RetryBaseDelay))

	var delay time.Duration
	for i := 0; i < attempts; i++ {
		next, stop := b.Next()
		if stop {
			break
		}
		delay = next
	}

	return delay
}

// recordError appends to the bounded error log. Caller holds s.mu.
func (s *Service) recordError(e models.SyncError) {
	s.errLog = append(s.errLog, e)
	if len(s.errLog) > s.cfg.ErrorLogSize {
		s.errLog = s.errLog[len(s.errLog)-s.cfg.ErrorLogSize:]
	}
}

// Status computes the current engine snapshot from store state.
func (s *Service) Status(ctx context.Context) (models.SyncStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.SyncStatus{
		IsOnline:  s.network.IsOnline(),
		IsSyncing: s.run != nil,
	}

	pending, err := s.store.PendingOperations(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to read pending operations: %w", err)
	}
	status.PendingChanges = len(pending)

	failed, err := s.store.FailedOperations(ctx)
	if err != nil {
		return status, fmt.Errorf("failed to read failed operations: %w", err)
	}
	status.FailedChanges = len(failed)

	conflicts, err := s.store.ListConflicts(ctx, false)
	if err != nil {
		return status, fmt.Errorf("failed to read conflicts: %w", err)
	}
	status.ConflictedChanges = len(conflicts)

	if last, err := s.store.LastSync(ctx); err == nil {
		status.LastSyncAt = last
	}

	status.Errors = make([]models.SyncError, len(s.errLog))
	copy(status.Errors, s.errLog)

	return status, nil
}

// RetryFailed moves all abandoned operations back to the pending set with
// reset attempt counters.
func (s *Service) RetryFailed(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RequeueFailed(ctx)
}

// Export serializes the full sync state for transfer across a process
// restart.
func (s *Service) Export(ctx context.Context) (*models.SyncMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Export(ctx)
}

// Import restores sync state from a snapshot. Malformed records are
// quarantined so one bad entry does not prevent valid siblings from loading;
// the engine remains usable afterwards either way.
func (s *Service) Import(ctx context.Context, data *models.SyncMetadata) (*storage.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.store.Import(ctx, data)
	if err != nil {
		return nil, err
	}

	for _, msg := range result.Quarantined {
		s.logger.Warn("quarantined import record", "reason", msg)
	}

	return result, nil
}

// Clear wipes all local sync state.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errLog = nil
	return s.store.Clear(ctx)
}
