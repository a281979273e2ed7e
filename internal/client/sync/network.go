package sync

import "sync"

// NetworkMonitor exposes the runtime's connectivity signal: a current state
// and change notifications.
type NetworkMonitor interface {
	// IsOnline reports current connectivity.
	IsOnline() bool

	// Subscribe registers a change callback and returns an unsubscribe
	// function. The callback fires on every transition.
	Subscribe(fn func(online bool)) func()
}

// Monitor is a manual NetworkMonitor fed by whatever connectivity signal the
// host runtime provides (browser events, interface watchers, probes).
type Monitor struct {
	subs   map[uint64]func(online bool)
	nextID uint64
	online bool
	mu     sync.Mutex
}

// NewMonitor creates a monitor with the given initial state.
func NewMonitor(online bool) *Monitor {
	return &Monitor{
		subs:   make(map[uint64]func(online bool)),
		online: online,
	}
}

// IsOnline reports current connectivity.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline updates the state and notifies subscribers on a transition.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	fns := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(online)
	}
}

// Subscribe registers a change callback.
func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Interface guard
var _ NetworkMonitor = (*Monitor)(nil)
