package state

import (
	"log/slog"
	"sync"
)

// Machine serializes dispatches against one State and fans out snapshots
// to subscribers. Each Dispatch is applied atomically.
type Machine struct {
	log *slog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]*subscriber
	nextID int
	closed bool
}

type subscriber struct {
	ch chan State
}

// NewMachine creates a Machine in the initial state.
func NewMachine(logger *slog.Logger) *Machine {
	return &Machine{
		log:   logger,
		state: Initial(),
		subs:  make(map[int]*subscriber),
	}
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies a and returns the new state. An audio handle that is
// dropped by the transition is released. Dispatch after Close is ignored.
func (m *Machine) Dispatch(a Action) State {
	m.mu.Lock()
	if m.closed {
		st := m.state
		m.mu.Unlock()
		return st
	}

	prev := m.state
	next := Reduce(prev, a)
	m.state = next
	for _, s := range m.subs {
		s.offer(next)
	}
	m.mu.Unlock()

	if old := prev.Response.Audio; old != nil && old != next.Response.Audio {
		old.Release()
	}

	m.log.Debug("state.dispatch",
		slog.String("action", Name(a)),
		slog.String("status", next.Status.Kind().String()),
		slog.Int("entries", len(next.Response.Data)),
	)
	return next
}

// Subscribe returns a channel that receives the current state immediately
// and every later state. A slow reader skips intermediate snapshots but
// always sees the latest one. The channel is closed by cancel or Close.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &subscriber{ch: make(chan State, 1)}
	if m.closed {
		close(s.ch)
		return s.ch, func() {}
	}

	id := m.nextID
	m.nextID++
	m.subs[id] = s
	s.offer(m.state)

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(s.ch)
			}
		})
	}
}

// Close releases the current audio handle and closes all subscriptions.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for id, s := range m.subs {
		close(s.ch)
		delete(m.subs, id)
	}
	playable := m.state.Response.Audio
	m.mu.Unlock()

	if playable != nil {
		playable.Release()
	}
}

// offer replaces any unread snapshot with st. Only the Machine sends, and
// always under its lock, so the final send cannot block.
func (s *subscriber) offer(st State) {
	select {
	case s.ch <- st:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- st:
	default:
	}
}
