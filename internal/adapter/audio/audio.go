// Package audio models pronunciation audio as a releasable playable handle.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ErrReleased is returned by Play after the handle has been released.
var ErrReleased = errors.New("audio: handle released")

// Playable is an opaque pronunciation resource owned by the lookup state.
type Playable interface {
	Play(ctx context.Context) error
	URL() string
	Release()
}

// Sink opens a destination for one playback. The returned writer is closed
// when playback finishes or is cancelled.
type Sink func(ctx context.Context) (io.WriteCloser, error)

// DiscardSink drops audio bytes. Used when no player is configured.
func DiscardSink(context.Context) (io.WriteCloser, error) {
	return nopCloser{io.Discard}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Loader creates handles that share one HTTP client and sink.
type Loader struct {
	httpClient *http.Client
	sink       Sink
	log        *slog.Logger
}

// NewLoader creates a Loader. A nil sink discards audio.
func NewLoader(httpClient *http.Client, sink Sink, logger *slog.Logger) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if sink == nil {
		sink = DiscardSink
	}
	return &Loader{
		httpClient: httpClient,
		sink:       sink,
		log:        logger.With("adapter", "audio"),
	}
}

// Open returns a handle for url, or nil when url is empty.
func (l *Loader) Open(url string) Playable {
	if url == "" {
		return nil
	}
	return &Handle{url: url, loader: l}
}

// Handle streams one audio URL to the loader's sink on every Play.
type Handle struct {
	url    string
	loader *Loader

	mu       sync.Mutex
	released bool
	cancels  map[int]context.CancelFunc
	nextID   int
}

// URL returns the audio source URL.
func (h *Handle) URL() string { return h.url }

// Play downloads the audio and copies it to the sink. Concurrent plays are
// allowed; Release cancels all of them.
func (h *Handle) Play(ctx context.Context) error {
	ctx, id, err := h.begin(ctx)
	if err != nil {
		return err
	}
	defer h.end(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return fmt.Errorf("audio: create request: %w", err)
	}

	resp, err := h.loader.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("audio: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio: unexpected status %d", resp.StatusCode)
	}

	w, err := h.loader.sink(ctx)
	if err != nil {
		return fmt.Errorf("audio: open sink: %w", err)
	}

	n, copyErr := io.Copy(w, resp.Body)
	closeErr := w.Close()
	if copyErr != nil {
		if ctx.Err() != nil && h.isReleased() {
			return ErrReleased
		}
		return fmt.Errorf("audio: stream: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("audio: close sink: %w", closeErr)
	}

	h.loader.log.DebugContext(ctx, "audio played", slog.String("url", h.url), slog.Int64("bytes", n))
	return nil
}

// Release cancels in-flight plays and makes later plays fail with ErrReleased.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	for _, cancel := range h.cancels {
		cancel()
	}
	h.cancels = nil
}

func (h *Handle) begin(ctx context.Context) (context.Context, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil, 0, ErrReleased
	}
	if h.cancels == nil {
		h.cancels = make(map[int]context.CancelFunc)
	}
	ctx, cancel := context.WithCancel(ctx)
	h.nextID++
	h.cancels[h.nextID] = cancel
	return ctx, h.nextID, nil
}

func (h *Handle) end(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cancel, ok := h.cancels[id]; ok {
		cancel()
		delete(h.cancels, id)
	}
}

func (h *Handle) isReleased() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
