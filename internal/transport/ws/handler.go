// Package ws streams lookup session state over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/quickdict/internal/service/lookup"
	"github.com/heartmarshall/quickdict/internal/state"
	"github.com/heartmarshall/quickdict/internal/transport/dto"
	"github.com/heartmarshall/quickdict/internal/transport/middleware"
	"github.com/heartmarshall/quickdict/pkg/ctxutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 << 10
)

// Client message types.
const (
	TypeInput   = "input"
	TypeQuery   = "query"
	TypeSynonym = "synonym"
	TypeClear   = "clear"
)

// Server message types.
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ServerMessage is pushed to the browser: a state snapshot or an error
// about the last client message.
type ServerMessage struct {
	Type  string     `json:"type"`
	State *dto.State `json:"state,omitempty"`
	Error string     `json:"error,omitempty"`
}

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sessionStore interface {
	Get(id string) (*lookup.Session, error)
	Delete(id string) error
}

type lookupLimiter interface {
	Allow(key string, maxPerMinute int) bool
}

// Handler upgrades GET /ws/sessions/{id}. The connected client owns the
// session: it is deleted when the connection ends.
type Handler struct {
	store     sessionStore
	limiter   lookupLimiter
	perMinute int
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

// NewHandler creates a Handler. allowedOrigins is the comma-separated CORS
// origin list; "*" accepts any origin. query and synonym messages draw from
// the client IP's limiter bucket at perMinute; a nil limiter disables this.
func NewHandler(store sessionStore, allowedOrigins string, limiter lookupLimiter, perMinute int, logger *slog.Logger) *Handler {
	origins := strings.Split(allowedOrigins, ",")
	return &Handler{
		store:     store,
		limiter:   limiter,
		perMinute: perMinute,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return checkOrigin(r, origins) },
		},
		log: logger.With("handler", "ws"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := ctxutil.SessionIDFromCtx(r.Context())
	if !ok {
		id = chi.URLParam(r, "id")
	}

	s, err := h.store.Get(id)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"session not found"}` + "\n"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.log.WarnContext(r.Context(), "websocket upgrade", slog.String("session_id", id), slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	log := h.log.With("session_id", id)
	log.InfoContext(r.Context(), "websocket connected")

	states, unsubscribe := s.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replies := make(chan ServerMessage, 8)
	ip := middleware.ClientIP(r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer conn.Close() // unblocks the reader
		return writeLoop(gctx, conn, states, replies)
	})
	g.Go(func() error {
		defer cancel()
		return h.readLoop(gctx, g, conn, s, ip, replies)
	})
	err = g.Wait()

	if derr := h.store.Delete(id); derr != nil && !errors.Is(derr, lookup.ErrSessionNotFound) {
		log.Warn("delete session", slog.String("error", derr.Error()))
	}
	if err != nil && !isNormalClose(err) {
		log.Warn("websocket closed with error", slog.String("error", err.Error()))
		return
	}
	log.Info("websocket disconnected")
}

func (h *Handler) readLoop(ctx context.Context, g *errgroup.Group, conn *websocket.Conn, s *lookup.Session, ip string, replies chan<- ServerMessage) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			reply(ctx, replies, ServerMessage{Type: TypeError, Error: "invalid message format"})
			continue
		}

		if (msg.Type == TypeQuery || msg.Type == TypeSynonym) && !h.allow(ip) {
			reply(ctx, replies, ServerMessage{Type: TypeError, Error: "rate limit exceeded"})
			continue
		}

		switch msg.Type {
		case TypeInput:
			err = s.SubmitInput(msg.Text)
		case TypeQuery:
			text := msg.Text
			g.Go(func() error { return ignoreLookupErr(s.Commit(ctx, text)) })
		case TypeSynonym:
			text := msg.Text
			g.Go(func() error { return ignoreLookupErr(s.SelectSynonym(ctx, text)) })
		case TypeClear:
			_, err = s.Clear(ctx)
		default:
			reply(ctx, replies, ServerMessage{Type: TypeError, Error: "unknown message type: " + msg.Type})
			continue
		}
		if errors.Is(err, lookup.ErrSessionClosed) {
			return err
		}
	}
}

func (h *Handler) allow(ip string) bool {
	return h.limiter == nil || h.limiter.Allow(ip, h.perMinute)
}

// ignoreLookupErr drops lookup outcomes, which reach the client as state.
func ignoreLookupErr(_ any, err error) error {
	if errors.Is(err, lookup.ErrSessionClosed) {
		return err
	}
	return nil
}

func writeLoop(ctx context.Context, conn *websocket.Conn, states <-chan state.State, replies <-chan ServerMessage) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return writeClose(conn, websocket.CloseNormalClosure, "")
		case st, ok := <-states:
			if !ok {
				return writeClose(conn, websocket.CloseGoingAway, "session closed")
			}
			snapshot := dto.FromState(st)
			if err := writeJSON(conn, ServerMessage{Type: TypeState, State: &snapshot}); err != nil {
				return err
			}
		case msg := <-replies:
			if err := writeJSON(conn, msg); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func writeClose(conn *websocket.Conn, code int, text string) error {
	err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}

func reply(ctx context.Context, replies chan<- ServerMessage, msg ServerMessage) {
	select {
	case replies <- msg:
	case <-ctx.Done():
	}
}

func isNormalClose(err error) bool {
	return errors.Is(err, lookup.ErrSessionClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
		errors.Is(err, net.ErrClosed)
}

func checkOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	// Same-origin pages are always accepted.
	return strings.EqualFold(u.Host, r.Host)
}
