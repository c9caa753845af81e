package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/quickdict/internal/adapter/audio"
	"github.com/heartmarshall/quickdict/internal/debounce"
	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/state"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryFetcher interface {
	FetchEntries(ctx context.Context, word string) ([]domain.Entry, error)
}

type audioOpener interface {
	Open(url string) audio.Playable
}

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNoAudio       = errors.New("no pronunciation audio")
)

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

type sessionOptions struct {
	window time.Duration
	clock  clockwork.Clock
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithDebounceWindow sets the quiet period for SubmitInput.
func WithDebounceWindow(d time.Duration) Option {
	return func(o *sessionOptions) { o.window = d }
}

// WithClock sets the time source for debouncing and idle tracking.
func WithClock(c clockwork.Clock) Option {
	return func(o *sessionOptions) { o.clock = c }
}

// Session owns one lookup state machine and drives it from user input.
// It is the single writer of its Machine.
type Session struct {
	id      string
	log     *slog.Logger
	fetcher entryFetcher
	audio   audioOpener
	machine *state.Machine
	input   *debounce.Debouncer[string]
	clock   clockwork.Clock

	// ctx bounds every lookup; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	query      string // last committed query
	failed     bool   // last lookup of query failed
	inflight   bool   // lookup of query is pending
	watchers   int    // attached Subscribe streams
	latest     uint64 // id of the newest lookup; older results are dropped
	closed     bool
	lastActive time.Time
}

// NewSession creates a Session in the initial state. opener may be nil, in
// which case lookups never carry audio.
func NewSession(id string, fetcher entryFetcher, opener audioOpener, logger *slog.Logger, opts ...Option) *Session {
	o := sessionOptions{window: debounce.DefaultWait, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.With("service", "lookup", "session_id", id)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:         id,
		log:        log,
		fetcher:    fetcher,
		audio:      opener,
		machine:    state.NewMachine(log),
		clock:      o.clock,
		ctx:        ctx,
		cancel:     cancel,
		lastActive: o.clock.Now(),
	}
	s.input = debounce.New(o.window, func(raw string) {
		if _, err := s.Commit(s.ctx, raw); errors.Is(err, ErrSessionClosed) {
			s.log.Debug("debounced input after close dropped")
		}
	}, debounce.WithClock(o.clock))

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lookup state.
func (s *Session) State() state.State { return s.machine.State() }

// Subscribe streams state snapshots; see state.Machine.Subscribe. A session
// with an open stream is never idle-expired.
func (s *Session) Subscribe() (<-chan state.State, func()) {
	ch, cancel := s.machine.Subscribe()

	s.mu.Lock()
	s.watchers++
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			cancel()
			s.mu.Lock()
			s.watchers--
			s.lastActive = s.clock.Now()
			s.mu.Unlock()
		})
	}
}

// Watched reports whether a Subscribe stream is open.
func (s *Session) Watched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchers > 0
}

// Query returns the last committed query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// LastActive returns the time of the last user interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// SubmitInput schedules raw for Commit once typing has been quiet for the
// debounce window. Each call replaces the pending one.
func (s *Session) SubmitInput(raw string) error {
	if err := s.touch(); err != nil {
		return err
	}
	s.input.Call(raw)
	return nil
}

// SelectSynonym looks up a clicked synonym immediately, through the same
// validation as typed input. Pending typed input is dropped.
func (s *Session) SelectSynonym(ctx context.Context, word string) (state.State, error) {
	s.input.Cancel()
	return s.Commit(ctx, word)
}

// Clear empties the query and the displayed result.
func (s *Session) Clear(ctx context.Context) (state.State, error) {
	s.input.Cancel()
	return s.Commit(ctx, "")
}

// Commit runs the input pipeline for raw right away: the status is cleared,
// the text validated, and a changed valid query looked up. It returns the
// resulting state. Repeating a pending query leaves it Loading. The error
// describes the outcome for non-interactive callers; the state already
// carries the user-facing message.
func (s *Session) Commit(ctx context.Context, raw string) (state.State, error) {
	if err := s.touch(); err != nil {
		return s.machine.State(), err
	}

	res := domain.ValidateQuery(raw)
	if res.Kind == domain.QueryValid {
		if st, ok := s.resumePending(res.Query); ok {
			return st, nil
		}
	}

	s.machine.Dispatch(state.ClearStatus{})

	switch res.Kind {
	case domain.QueryInvalid:
		s.log.DebugContext(ctx, "query rejected", slog.String("query", res.Query), slog.String("reason", res.Message))
		return s.machine.Dispatch(state.InvalidQuery{Message: res.Message}), res.Err()
	case domain.QueryEmpty:
		return s.commitEmpty(), nil
	default:
		return s.commitWord(ctx, res.Query)
	}
}

// Play plays the current pronunciation.
func (s *Session) Play(ctx context.Context) error {
	if err := s.touch(); err != nil {
		return err
	}
	playable := s.machine.State().Response.Audio
	if playable == nil {
		return ErrNoAudio
	}
	if err := playable.Play(ctx); err != nil {
		return fmt.Errorf("lookup: play: %w", err)
	}
	return nil
}

// Close stops pending input, aborts the in-flight lookup and releases the
// state. Later calls return ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.input.Stop()
	s.cancel()
	s.machine.Close()
	s.log.Debug("session closed")
}

func (s *Session) commitEmpty() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = ""
	s.failed = false
	s.inflight = false
	s.latest++ // drop any in-flight result
	return s.machine.Dispatch(state.EmptyQuery{})
}

func (s *Session) commitWord(ctx context.Context, word string) (state.State, error) {
	s.mu.Lock()
	if word == s.query && !s.failed {
		defer s.mu.Unlock()
		if s.inflight {
			return s.machine.Dispatch(state.FetchStart{}), nil
		}
		return s.machine.State(), nil
	}
	s.query = word
	s.inflight = true
	s.latest++
	id := s.latest
	s.machine.Dispatch(state.FetchStart{})
	s.mu.Unlock()

	s.log.DebugContext(ctx, "lookup started", slog.String("query", word), slog.Uint64("request_id", id))

	// The lookup is bound to the session, not the caller: a committed query
	// always resolves unless the session closes.
	entries, err := s.fetcher.FetchEntries(s.ctx, word)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.latest {
		s.log.DebugContext(ctx, "stale lookup result dropped",
			slog.String("query", word),
			slog.Uint64("request_id", id),
			slog.Uint64("latest", s.latest),
		)
		return s.machine.State(), err
	}

	s.inflight = false
	s.failed = err != nil
	if err != nil {
		msg := domain.StatusMessage(err)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "word not found", slog.String("query", word))
		} else {
			s.log.WarnContext(ctx, "lookup failed", slog.String("query", word), slog.String("error", err.Error()))
		}
		return s.machine.Dispatch(state.FetchError{Message: msg}), err
	}

	s.machine.Dispatch(state.FetchSuccess{Entries: entries})
	s.machine.Dispatch(state.AddPhonetic{Text: domain.FirstPhonetic(entries)})
	st := s.machine.Dispatch(state.AddAudio{Audio: s.openAudio(domain.FirstAudio(entries))})

	s.log.InfoContext(ctx, "lookup succeeded", slog.String("query", word), slog.Int("entries", len(entries)))
	return st, nil
}

// resumePending keeps an identical pending lookup running. The status goes
// back to Loading, so a repeated commit never shows an idle screen while the
// request is outstanding.
func (s *Session) resumePending(word string) (state.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inflight || word != s.query {
		return state.State{}, false
	}
	return s.machine.Dispatch(state.FetchStart{}), true
}

func (s *Session) openAudio(url string) audio.Playable {
	if s.audio == nil || url == "" {
		return nil
	}
	return s.audio.Open(url)
}

func (s *Session) touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastActive = s.clock.Now()
	return nil
}
