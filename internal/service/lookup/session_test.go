package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/quickdict/internal/adapter/audio"
	"github.com/heartmarshall/quickdict/internal/domain"
	"github.com/heartmarshall/quickdict/internal/state"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockFetcher struct {
	FetchEntriesFunc func(ctx context.Context, word string) ([]domain.Entry, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockFetcher) FetchEntries(ctx context.Context, word string) ([]domain.Entry, error) {
	m.mu.Lock()
	m.calls = append(m.calls, word)
	m.mu.Unlock()
	if m.FetchEntriesFunc != nil {
		return m.FetchEntriesFunc(ctx, word)
	}
	return []domain.Entry{{Word: word}}, nil
}

func (m *mockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type fakePlayable struct {
	url string

	mu       sync.Mutex
	plays    int
	released bool
}

func (f *fakePlayable) Play(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return audio.ErrReleased
	}
	f.plays++
	return nil
}

func (f *fakePlayable) URL() string { return f.url }

func (f *fakePlayable) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

func (f *fakePlayable) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type mockOpener struct {
	mu     sync.Mutex
	opened []*fakePlayable
}

func (m *mockOpener) Open(url string) audio.Playable {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &fakePlayable{url: url}
	m.opened = append(m.opened, p)
	return p
}

// ===========================================================================
// Helpers
// ===========================================================================

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func helloEntries() []domain.Entry {
	return []domain.Entry{{
		Word:      "Hello",
		Phonetics: []domain.Phonetic{{Text: "/həˈləʊ/", Audio: ""}},
		Meanings: []domain.Meaning{{
			PartOfSpeech: "exclamation",
			Synonyms:     []string{"hi"},
			Definitions:  []domain.Definition{{Definition: "used as a greeting."}},
		}},
	}}
}

func newTestSession(t *testing.T, f *mockFetcher, o audioOpener, opts ...Option) *Session {
	t.Helper()
	s := NewSession("test", f, o, newTestLogger(), opts...)
	t.Cleanup(s.Close)
	return s
}

// ===========================================================================
// Tests
// ===========================================================================

func TestSession_InitialState(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, &mockFetcher{}, nil)
	st := s.State()

	assert.Equal(t, state.StatusIdle, st.Status.Kind())
	assert.False(t, st.HasData())
	assert.Equal(t, "test", s.ID())
	assert.Empty(t, s.Query())
}

func TestSession_Commit_HelloScenario(t *testing.T) {
	t.Parallel()

	var sawLoading bool
	var s *Session
	f := &mockFetcher{FetchEntriesFunc: func(ctx context.Context, word string) ([]domain.Entry, error) {
		sawLoading = s.State().Status.Kind() == state.StatusLoading
		return helloEntries(), nil
	}}
	s = newTestSession(t, f, &mockOpener{})

	st, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	assert.True(t, sawLoading, "FetchStart must be dispatched before the request")
	assert.Equal(t, []string{"hello"}, f.Calls())
	assert.Equal(t, state.Status{}, st.Status)
	assert.Equal(t, "/həˈləʊ/", st.Response.Phonetic)
	assert.Equal(t, "Hello", st.Response.Data[0].Word)
	assert.Nil(t, st.Response.Audio, "no phonetic variant carries audio")
	assert.Equal(t, "hello", s.Query())
}

func TestSession_Commit_NormalizesInput(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{}
	s := newTestSession(t, f, nil)

	_, err := s.Commit(context.Background(), "  HeLLo ")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, f.Calls())
}

func TestSession_Commit_InvalidQueryMakesNoRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"xyz123", domain.MsgSymbols},
		{"ice cream", domain.MsgMultiWord},
		{"ice cream 2", domain.MsgSymbols},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			f := &mockFetcher{}
			s := newTestSession(t, f, nil)

			st, err := s.Commit(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			assert.Empty(t, f.Calls())
			assert.Equal(t, state.Status{Error: true, Message: tt.want}, st.Status)
		})
	}
}

func TestSession_Commit_InvalidKeepsPreviousResult(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{FetchEntriesFunc: func(context.Context, string) ([]domain.Entry, error) {
		return helloEntries(), nil
	}}
	s := newTestSession(t, f, nil)

	_, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	st, _ := s.Commit(context.Background(), "two words")
	assert.Equal(t, domain.MsgMultiWord, st.Status.Message)
	assert.Equal(t, "Hello", st.Word())
	assert.Equal(t, "hello", s.Query(), "rejected input does not change the committed query")
}

func TestSession_Commit_NotFoundKeepsData(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		if word == "hello" {
			return helloEntries(), nil
		}
		return nil, fmt.Errorf("freedict: %q: %w", word, domain.ErrNotFound)
	}}
	s := newTestSession(t, f, nil)

	before, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	st, err := s.Commit(context.Background(), "qwertyzzz")
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, state.Status{Error: true, Message: domain.MsgNotFound}, st.Status)
	assert.Equal(t, before.Response.Data, st.Response.Data)
}

func TestSession_Commit_TransportError(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{FetchEntriesFunc: func(context.Context, string) ([]domain.Entry, error) {
		return nil, fmt.Errorf("freedict: unexpected status 503: %w", domain.ErrTransport)
	}}
	s := newTestSession(t, f, nil)

	st, err := s.Commit(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, state.Status{Error: true, Message: domain.MsgAPIDown}, st.Status)
	assert.False(t, st.Status.Loading, "loading must be cleared on failure")
}

func TestSession_Commit_SameQueryNotRefetched(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{}
	s := newTestSession(t, f, nil)

	_, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)
	_, err = s.Commit(context.Background(), "Hello ")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello"}, f.Calls())
}

func TestSession_Commit_SameQueryRetriedAfterFailure(t *testing.T) {
	t.Parallel()

	var fail = true
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		if fail {
			return nil, domain.ErrTransport
		}
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil)

	_, err := s.Commit(context.Background(), "hello")
	require.Error(t, err)

	fail = false
	st, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "hello"}, f.Calls())
	assert.Equal(t, "hello", st.Word())
}

func TestSession_Commit_EmptyResets(t *testing.T) {
	t.Parallel()

	opener := &mockOpener{}
	f := &mockFetcher{FetchEntriesFunc: func(context.Context, string) ([]domain.Entry, error) {
		return []domain.Entry{{Word: "hello", Phonetics: []domain.Phonetic{{Text: "/h/", Audio: "https://a/hello.mp3"}}}}, nil
	}}
	s := newTestSession(t, f, opener)

	_, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	st, err := s.Clear(context.Background())
	require.NoError(t, err)

	assert.Equal(t, state.Initial().Status, st.Status)
	assert.False(t, st.HasData())
	assert.Empty(t, st.Response.Phonetic)
	assert.Nil(t, st.Response.Audio)
	assert.Empty(t, s.Query())
	require.Len(t, opener.opened, 1)
	assert.True(t, opener.opened[0].Released())

	// The same word is fetched again after a clear.
	_, err = s.Commit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "hello"}, f.Calls())
}

func TestSession_AudioLifecycle(t *testing.T) {
	t.Parallel()

	opener := &mockOpener{}
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		return []domain.Entry{{
			Word: word,
			Phonetics: []domain.Phonetic{
				{Text: "", Audio: ""},
				{Text: "", Audio: "https://a/" + word + ".mp3"},
				{Text: "/" + word + "/", Audio: "https://b/" + word + ".mp3"},
			},
		}}, nil
	}}
	s := newTestSession(t, f, opener)

	st, err := s.Commit(context.Background(), "cat")
	require.NoError(t, err)
	require.NotNil(t, st.Response.Audio)
	assert.Equal(t, "https://a/cat.mp3", st.Response.Audio.URL())
	assert.Equal(t, "/cat/", st.Response.Phonetic)

	require.NoError(t, s.Play(context.Background()))

	_, err = s.Commit(context.Background(), "dog")
	require.NoError(t, err)

	require.Len(t, opener.opened, 2)
	assert.True(t, opener.opened[0].Released(), "superseded audio is released")
	assert.False(t, opener.opened[1].Released())

	s.Close()
	assert.True(t, opener.opened[1].Released(), "close releases current audio")
}

func TestSession_Play_NoAudio(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, &mockFetcher{}, nil)
	assert.ErrorIs(t, s.Play(context.Background()), ErrNoAudio)
}

func TestSession_SelectSynonym(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		if word == "hello" {
			return helloEntries(), nil
		}
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil)

	_, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)

	st, err := s.SelectSynonym(context.Background(), "Greeting")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "greeting"}, f.Calls())
	assert.Equal(t, "greeting", st.Word())
	assert.Equal(t, "greeting", s.Query())
}

func TestSession_SelectSynonym_MultiWordRejected(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{}
	s := newTestSession(t, f, nil)

	st, err := s.SelectSynonym(context.Background(), "hello there")
	require.Error(t, err)
	assert.Equal(t, domain.MsgMultiWord, st.Status.Message)
	assert.Empty(t, f.Calls())
}

func TestSession_StaleResultDropped(t *testing.T) {
	t.Parallel()

	releaseSlow := make(chan struct{})
	slowStarted := make(chan struct{})
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		if word == "slow" {
			close(slowStarted)
			<-releaseSlow
		}
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil)

	slowDone := make(chan state.State, 1)
	go func() {
		st, _ := s.Commit(context.Background(), "slow")
		slowDone <- st
	}()
	<-slowStarted

	st, err := s.Commit(context.Background(), "fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", st.Word())

	close(releaseSlow)
	select {
	case <-slowDone:
	case <-time.After(2 * time.Second):
		t.Fatal("slow lookup did not return")
	}

	final := s.State()
	assert.Equal(t, "fast", final.Word(), "stale response must not overwrite the newer query")
	assert.Equal(t, state.StatusIdle, final.Status.Kind())
}

func TestSession_Commit_RepeatWhileLoadingStaysLoading(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		started <- struct{}{}
		<-release
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Commit(context.Background(), "hello")
	}()
	<-started

	for _, raw := range []string{"hello", " HELLO "} {
		st, err := s.Commit(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, state.StatusLoading, st.Status.Kind())
		assert.Equal(t, state.StatusLoading, s.State().Status.Kind())
	}

	// An invalid query shows its error; repeating the pending word resumes Loading.
	_, err := s.Commit(context.Background(), "hello world")
	require.Error(t, err)
	assert.Equal(t, state.StatusError, s.State().Status.Kind())

	st, err := s.Commit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, state.StatusLoading, st.Status.Kind())

	close(release)
	<-done

	assert.Equal(t, []string{"hello"}, f.Calls(), "the pending request is not duplicated")
	final := s.State()
	assert.Equal(t, state.StatusIdle, final.Status.Kind())
	assert.Equal(t, "hello", final.Word())

	// Once resolved, a repeat is a no-op again.
	st, err = s.Commit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, state.StatusIdle, st.Status.Kind())
	assert.Len(t, f.Calls(), 1)
}

func TestSession_ClearDropsInFlightResult(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		close(started)
		<-release
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Commit(context.Background(), "late")
	}()
	<-started

	_, err := s.Clear(context.Background())
	require.NoError(t, err)
	close(release)
	<-done

	assert.False(t, s.State().HasData())
}

func TestSession_SubmitInput_Debounced(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	fetched := make(chan string, 4)
	f := &mockFetcher{FetchEntriesFunc: func(_ context.Context, word string) ([]domain.Entry, error) {
		fetched <- word
		return []domain.Entry{{Word: word}}, nil
	}}
	s := newTestSession(t, f, nil, WithClock(clock), WithDebounceWindow(time.Second))

	require.NoError(t, s.SubmitInput("hel"))
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, s.SubmitInput("hello"))
	clock.Advance(999 * time.Millisecond)

	select {
	case w := <-fetched:
		t.Fatalf("lookup %q fired before the quiet window elapsed", w)
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Millisecond)
	select {
	case w := <-fetched:
		assert.Equal(t, "hello", w)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced lookup did not fire")
	}

	require.Eventually(t, func() bool { return s.State().Word() == "hello" }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"hello"}, f.Calls())
}

func TestSession_SynonymCancelsPendingInput(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	f := &mockFetcher{}
	s := newTestSession(t, f, nil, WithClock(clock))

	require.NoError(t, s.SubmitInput("typed"))
	_, err := s.SelectSynonym(context.Background(), "clicked")
	require.NoError(t, err)

	clock.Advance(5 * time.Second)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []string{"clicked"}, f.Calls())
}

func TestSession_Close(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	f := &mockFetcher{}
	s := NewSession("closing", f, nil, newTestLogger(), WithClock(clock))

	require.NoError(t, s.SubmitInput("hello"))
	s.Close()
	s.Close()

	clock.Advance(5 * time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.Calls(), "pending input must not fire after close")

	_, err := s.Commit(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.SubmitInput("x"), ErrSessionClosed)
	assert.ErrorIs(t, s.Play(context.Background()), ErrSessionClosed)
}

func TestSession_CloseCancelsInFlightLookup(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	f := &mockFetcher{FetchEntriesFunc: func(ctx context.Context, word string) ([]domain.Entry, error) {
		close(started)
		<-ctx.Done()
		return nil, fmt.Errorf("freedict: request failed: %w: %w", domain.ErrTransport, ctx.Err())
	}}
	s := NewSession("closing", f, nil, newTestLogger())

	done := make(chan error, 1)
	go func() {
		_, err := s.Commit(context.Background(), "hello")
		done <- err
	}()
	<-started
	s.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("lookup was not cancelled by Close")
	}
}

func TestSession_LastActive(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	s := newTestSession(t, &mockFetcher{}, nil, WithClock(clock))
	start := s.LastActive()

	clock.Advance(time.Minute)
	_, err := s.Commit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, start.Add(time.Minute), s.LastActive())
}
