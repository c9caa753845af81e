package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

dictionary:
  base_url: "http://localhost:9999/api/v2/entries/en"
  request_timeout: "3s"
  user_agent: "quickdict-test"

lookup:
  debounce_window: "250ms"
  session_ttl: "10m"
  max_sessions: 50
  sweep_interval: "30s"

audio:
  player_command: "mpg123 -q -"

log:
  level: "debug"
  format: "text"

rate_limit:
  lookups_per_minute: 30
`

// chdirTemp moves into an empty temp dir so no ./config.yaml is found.
func chdirTemp(t *testing.T) {
	t.Helper()
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Dictionary: DictionaryConfig{
			BaseURL:        "https://api.dictionaryapi.dev/api/v2/entries/en",
			RequestTimeout: 10 * time.Second,
		},
		Lookup: LookupConfig{
			DebounceWindow: time.Second,
			SessionTTL:     30 * time.Minute,
			MaxSessions:    1000,
			SweepInterval:  time.Minute,
		},
		Log:       LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{LookupsPerMinute: 60, CleanupInterval: 5 * time.Minute},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("server.Addr() = %q", got)
	}

	// Dictionary
	if cfg.Dictionary.BaseURL != "http://localhost:9999/api/v2/entries/en" {
		t.Errorf("dictionary.base_url = %q", cfg.Dictionary.BaseURL)
	}
	if cfg.Dictionary.RequestTimeout != 3*time.Second {
		t.Errorf("dictionary.request_timeout = %v, want 3s", cfg.Dictionary.RequestTimeout)
	}
	if cfg.Dictionary.UserAgent != "quickdict-test" {
		t.Errorf("dictionary.user_agent = %q", cfg.Dictionary.UserAgent)
	}

	// Lookup
	if cfg.Lookup.DebounceWindow != 250*time.Millisecond {
		t.Errorf("lookup.debounce_window = %v, want 250ms", cfg.Lookup.DebounceWindow)
	}
	if cfg.Lookup.MaxSessions != 50 {
		t.Errorf("lookup.max_sessions = %d, want 50", cfg.Lookup.MaxSessions)
	}

	// Audio
	if cfg.Audio.PlayerCommand != "mpg123 -q -" {
		t.Errorf("audio.player_command = %q", cfg.Audio.PlayerCommand)
	}
	if cfg.Audio.FetchTimeout != 30*time.Second {
		t.Errorf("audio.fetch_timeout = %v, want 30s (default)", cfg.Audio.FetchTimeout)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Rate limit
	if cfg.RateLimit.LookupsPerMinute != 30 {
		t.Errorf("rate_limit.lookups_per_minute = %d, want 30", cfg.RateLimit.LookupsPerMinute)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOOKUP_DEBOUNCE_WINDOW", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Lookup.DebounceWindow != 2*time.Second {
		t.Errorf("lookup.debounce_window = %v, want 2s (ENV override)", cfg.Lookup.DebounceWindow)
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Dictionary.BaseURL != "https://api.dictionaryapi.dev/api/v2/entries/en" {
		t.Errorf("dictionary.base_url = %q (default)", cfg.Dictionary.BaseURL)
	}
	if cfg.Lookup.DebounceWindow != time.Second {
		t.Errorf("lookup.debounce_window = %v, want 1s (default)", cfg.Lookup.DebounceWindow)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want json (default)", cfg.Log.Format)
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidEnvDuration(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LOOKUP_DEBOUNCE_WINDOW", "soon")
	chdirTemp(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"base url not http", func(c *Config) { c.Dictionary.BaseURL = "ftp://example.com" }},
		{"base url empty", func(c *Config) { c.Dictionary.BaseURL = "" }},
		{"request timeout zero", func(c *Config) { c.Dictionary.RequestTimeout = 0 }},
		{"debounce zero", func(c *Config) { c.Lookup.DebounceWindow = 0 }},
		{"session ttl negative", func(c *Config) { c.Lookup.SessionTTL = -time.Second }},
		{"max sessions zero", func(c *Config) { c.Lookup.MaxSessions = 0 }},
		{"sweep interval zero", func(c *Config) { c.Lookup.SweepInterval = 0 }},
		{"rate limit negative", func(c *Config) { c.RateLimit.LookupsPerMinute = -1 }},
		{"rate limit cleanup zero", func(c *Config) { c.RateLimit.CleanupInterval = 0 }},
		{"rate limit cleanup negative", func(c *Config) { c.RateLimit.CleanupInterval = -time.Minute }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_LogFormatCaseInsensitive(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Format = "TEXT"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
