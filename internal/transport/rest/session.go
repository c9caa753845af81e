package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/quickdict/internal/service/lookup"
	"github.com/heartmarshall/quickdict/internal/state"
	"github.com/heartmarshall/quickdict/internal/transport/dto"
	"github.com/heartmarshall/quickdict/internal/transport/middleware"
	"github.com/heartmarshall/quickdict/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sessionStore interface {
	Create() (*lookup.Session, error)
	Get(id string) (*lookup.Session, error)
	Delete(id string) error
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// CreateSessionResponse is returned by POST /api/sessions.
type CreateSessionResponse struct {
	ID    string    `json:"id"`
	State dto.State `json:"state"`
}

// TextRequest is the body of the input and query endpoints.
type TextRequest struct {
	Text string `json:"text"`
}

// SynonymRequest is the body of the synonym endpoint.
type SynonymRequest struct {
	Word string `json:"word"`
}

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// SessionHandler exposes lookup sessions over HTTP.
type SessionHandler struct {
	store sessionStore
	log   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(store sessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{store: store, log: logger.With("handler", "session")}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Create()
	if err != nil {
		if errors.Is(err, lookup.ErrTooManySessions) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "create session", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Location", "/api/sessions/"+s.ID())
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: s.ID(), State: dto.FromState(s.State())})
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.FromState(s.State()))
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(sessionID(r)); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Input handles POST /api/sessions/{id}/input. The text is looked up once
// the client stops typing; the response is the current state.
func (h *SessionHandler) Input(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.SubmitInput(req.Text); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, dto.FromState(s.State()))
}

// Query handles POST /api/sessions/{id}/query: an immediate commit.
func (h *SessionHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	h.commit(w, r, &req, func(ctx context.Context, s *lookup.Session) (state.State, error) {
		return s.Commit(ctx, req.Text)
	})
}

// Synonym handles POST /api/sessions/{id}/synonym.
func (h *SessionHandler) Synonym(w http.ResponseWriter, r *http.Request) {
	var req SynonymRequest
	h.commit(w, r, &req, func(ctx context.Context, s *lookup.Session) (state.State, error) {
		return s.SelectSynonym(ctx, req.Word)
	})
}

// Clear handles POST /api/sessions/{id}/clear.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.commit(w, r, nil, func(ctx context.Context, s *lookup.Session) (state.State, error) {
		return s.Clear(ctx)
	})
}

// commit decodes body (if any) and runs op. Lookup outcomes, including
// rejected input and unknown words, are reported in the returned state with
// 200; only session errors change the status code.
func (h *SessionHandler) commit(w http.ResponseWriter, r *http.Request, body any, op func(context.Context, *lookup.Session) (state.State, error)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if body != nil {
		if err := decodeJSON(w, r, body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	st, err := op(r.Context(), s)
	if errors.Is(err, lookup.ErrSessionClosed) {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromState(st))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*lookup.Session, bool) {
	s, err := h.store.Get(sessionID(r))
	if err != nil {
		h.writeSessionError(w, r, err)
		return nil, false
	}
	return s, true
}

// sessionID prefers the id placed by middleware.SessionID.
func sessionID(r *http.Request) string {
	if id, ok := ctxutil.SessionIDFromCtx(r.Context()); ok {
		return id
	}
	return chi.URLParam(r, "id")
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lookup.ErrSessionNotFound), errors.Is(err, lookup.ErrSessionClosed):
		writeError(w, http.StatusNotFound, "session not found")
	default:
		h.log.ErrorContext(r.Context(), "session request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Routes returns the router for /api/sessions. limit wraps the routes that
// can reach the dictionary API; it may be nil.
func (h *SessionHandler) Routes(limit middleware.Middleware) chi.Router {
	lookups := middleware.Chain(limit)

	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(middleware.SessionID("id"))
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Post("/clear", h.Clear)
		r.With(lookups).Post("/input", h.Input)
		r.With(lookups).Post("/query", h.Query)
		r.With(lookups).Post("/synonym", h.Synonym)
	})
	return r
}
