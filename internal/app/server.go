package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/quickdict/internal/service/lookup"
	"github.com/heartmarshall/quickdict/internal/transport/middleware"
	"github.com/heartmarshall/quickdict/internal/transport/rest"
	"github.com/heartmarshall/quickdict/internal/transport/ws"
)

// Router builds the HTTP handler: health probes, the session REST API and
// the WebSocket endpoint.
func (a *App) Router(registry *lookup.Registry, limiter *middleware.RateLimiter) http.Handler {
	limit := limiter.Limit(a.cfg.RateLimit.LookupsPerMinute)

	health := rest.NewHealthHandler(a.provider, registry, a.cfg.Lookup.MaxSessions, Version)
	sessions := rest.NewSessionHandler(registry, a.log)
	socket := ws.NewHandler(registry, a.cfg.CORS.AllowedOrigins, limiter, a.cfg.RateLimit.LookupsPerMinute, a.log)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(a.log),
		middleware.Recovery(a.log),
		middleware.CORS(a.cfg.CORS),
	)

	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)
	r.Get("/health", health.Health)

	r.Mount("/api/sessions", sessions.Routes(limit))
	r.With(middleware.SessionID("id"), limit).Get("/ws/sessions/{id}", socket.ServeHTTP)

	return r
}

// Serve runs the HTTP server and the session sweeper until ctx is done, then
// shuts the server down within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	registry := lookup.NewRegistry(a.factory, a.cfg.Lookup, nil, a.log)
	limiter := middleware.NewRateLimiter(a.cfg.RateLimit.CleanupInterval, nil)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.Router(registry, limiter),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return registry.Run(ctx)
	})

	g.Go(func() error {
		a.log.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
