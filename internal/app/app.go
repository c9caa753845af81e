// Package app wires configuration, adapters and transports into runnable
// front-ends.
package app

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/quickdict/internal/adapter/audio"
	"github.com/heartmarshall/quickdict/internal/adapter/provider/freedict"
	"github.com/heartmarshall/quickdict/internal/config"
	"github.com/heartmarshall/quickdict/internal/service/lookup"
)

// App holds the dependencies shared by every front-end.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	provider *freedict.Provider
	factory  lookup.SessionFactory
}

// New builds the dictionary provider, the audio loader and the session
// factory from cfg.
func New(cfg *config.Config, logger *slog.Logger) *App {
	dict := cfg.Dictionary
	if dict.UserAgent == "" {
		dict.UserAgent = UserAgent()
	}
	provider := freedict.NewProvider(dict, logger)

	loader := audio.NewLoader(
		&http.Client{Timeout: cfg.Audio.FetchTimeout},
		audio.CommandSink(cfg.Audio.PlayerCommand),
		logger,
	)

	factory := lookup.NewSessionFactory(provider, loader, logger,
		lookup.WithDebounceWindow(cfg.Lookup.DebounceWindow),
	)

	return &App{
		cfg:      cfg,
		log:      logger,
		provider: provider,
		factory:  factory,
	}
}

// Factory returns the session factory.
func (a *App) Factory() lookup.SessionFactory { return a.factory }

// NewSession creates a standalone session for a single-user front-end. The
// caller must Close it.
func (a *App) NewSession(kind string) *lookup.Session {
	return a.factory(kind + "-" + uuid.NewString())
}
