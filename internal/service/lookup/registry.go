package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/quickdict/internal/config"
	"github.com/heartmarshall/quickdict/internal/domain"
)

var (
	ErrSessionNotFound = fmt.Errorf("session: %w", domain.ErrNotFound)
	ErrTooManySessions = errors.New("too many sessions")
)

// SessionFactory builds a Session for a new id.
type SessionFactory func(id string) *Session

// NewSessionFactory returns a factory that wires every session to the same
// fetcher and audio loader.
func NewSessionFactory(fetcher entryFetcher, opener audioOpener, logger *slog.Logger, opts ...Option) SessionFactory {
	return func(id string) *Session {
		return NewSession(id, fetcher, opener, logger, opts...)
	}
}

// Registry holds the sessions of HTTP clients, one per browser tab.
type Registry struct {
	log     *slog.Logger
	newSess SessionFactory
	cfg     config.LookupConfig
	clock   clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry. clock may be nil.
func NewRegistry(factory SessionFactory, cfg config.LookupConfig, clock clockwork.Clock, logger *slog.Logger) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		log:      logger.With("service", "lookup_registry"),
		newSess:  factory,
		cfg:      cfg,
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session.
func (r *Registry) Create() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.NewString()
	s := r.newSess(id)
	r.sessions[id] = s

	r.log.Info("session created", slog.String("session_id", id), slog.Int("sessions", len(r.sessions)))
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	r.log.Info("session deleted", slog.String("session_id", id))
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the configured TTL and returns
// how many were removed. Sessions with an open state stream are kept.
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.cfg.SessionTTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if !s.Watched() && s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		r.log.Info("idle sessions expired", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return nil
		case <-ticker.Chan():
			r.Sweep()
		}
	}
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	if len(all) > 0 {
		r.log.Info("sessions closed", slog.Int("count", len(all)))
	}
}
