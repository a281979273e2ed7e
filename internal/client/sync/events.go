package sync

import (
	"log/slog"
	"sync"
)

// Event names a lifecycle transition emitted by the engine.
type Event string

const (
	// EventSyncStarted fires when a drain run begins.
	EventSyncStarted Event = "sync:started"
	// EventSyncCompleted fires when a drain run finishes; payload is *Result.
	EventSyncCompleted Event = "sync:completed"
	// EventSyncError fires when a drain run aborts; payload is the error.
	EventSyncError Event = "sync:error"
	// EventConflictDetected fires when a version conflict is recorded;
	// payload is *models.Conflict.
	EventConflictDetected Event = "conflict:detected"
	// EventConflictResolved fires when a conflict is resolved; payload is
	// *models.Conflict.
	EventConflictResolved Event = "conflict:resolved"
)

// Handler receives an event payload. Handlers run synchronously in the
// context of the state change; a panicking handler is isolated and does not
// stop dispatch to the remaining handlers.
type Handler func(payload any)

// Subscription identifies a registered handler for Off.
type Subscription struct {
	event Event
	id    uint64
}

type registration struct {
	fn Handler
	id uint64
}

// hub is an explicit observer registry: event name to ordered handler list.
type hub struct {
	handlers map[Event][]registration
	logger   *slog.Logger
	nextID   uint64
	mu       sync.RWMutex
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		handlers: make(map[Event][]registration),
		logger:   logger,
	}
}

func (h *hub) on(event Event, fn Handler) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.handlers[event] = append(h.handlers[event], registration{id: h.nextID, fn: fn})

	return Subscription{event: event, id: h.nextID}
}

func (h *hub) off(sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	regs := h.handlers[sub.event]
	for i, reg := range regs {
		if reg.id == sub.id {
			h.handlers[sub.event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (h *hub) emit(event Event, payload any) {
	h.mu.RLock()
	regs := make([]registration, len(h.handlers[event]))
	copy(regs, h.handlers[event])
	h.mu.RUnlock()

	for _, reg := range regs {
		h.dispatch(event, reg, payload)
	}
}

// dispatch invokes one handler, recovering its panic so the engine and the
// remaining handlers keep running.
func (h *hub) dispatch(event Event, reg registration, payload any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event handler panicked",
				"event", string(event),
				"panic", r)
		}
	}()

	reg.fn(payload)
}
