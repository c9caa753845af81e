package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Lookup     LookupConfig     `yaml:"lookup"`
	Audio      AudioConfig      `yaml:"audio"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DictionaryConfig holds settings for the upstream dictionary API.
type DictionaryConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"DICT_BASE_URL"        env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"DICT_REQUEST_TIMEOUT" env-default:"10s"`
	UserAgent      string        `yaml:"user_agent"      env:"DICT_USER_AGENT"`
}

// LookupConfig holds session behaviour settings.
type LookupConfig struct {
	DebounceWindow time.Duration `yaml:"debounce_window" env:"LOOKUP_DEBOUNCE_WINDOW" env-default:"1s"`
	SessionTTL     time.Duration `yaml:"session_ttl"     env:"LOOKUP_SESSION_TTL"     env-default:"30m"`
	MaxSessions    int           `yaml:"max_sessions"    env:"LOOKUP_MAX_SESSIONS"    env-default:"1000"`
	SweepInterval  time.Duration `yaml:"sweep_interval"  env:"LOOKUP_SWEEP_INTERVAL"  env-default:"1m"`
}

// AudioConfig holds pronunciation playback settings.
type AudioConfig struct {
	// PlayerCommand receives the audio bytes on stdin, e.g. "mpg123 -q -".
	// Empty discards audio.
	PlayerCommand string        `yaml:"player_command" env:"AUDIO_PLAYER_COMMAND"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"  env:"AUDIO_FETCH_TIMEOUT"  env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	// File redirects logs away from stderr. The TUI sets it so log lines do
	// not corrupt the screen.
	File string `yaml:"file" env:"LOG_FILE"`
}

// RateLimitConfig limits lookups per client IP to protect the upstream API.
type RateLimitConfig struct {
	LookupsPerMinute int           `yaml:"lookups_per_minute" env:"RATE_LIMIT_LOOKUPS_PER_MINUTE" env-default:"60"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"   env:"RATE_LIMIT_CLEANUP_INTERVAL"   env-default:"5m"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
