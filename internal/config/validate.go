package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [0, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	if err := c.Lookup.validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if c.RateLimit.LookupsPerMinute < 0 {
		return fmt.Errorf("rate_limit.lookups_per_minute must be >= 0 (got %d)", c.RateLimit.LookupsPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (d *DictionaryConfig) validate() error {
	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", d.BaseURL)
	}
	if d.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %v)", d.RequestTimeout)
	}
	return nil
}

func (l *LookupConfig) validate() error {
	if l.DebounceWindow <= 0 {
		return fmt.Errorf("debounce_window must be > 0 (got %v)", l.DebounceWindow)
	}
	if l.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %v)", l.SessionTTL)
	}
	if l.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be > 0 (got %d)", l.MaxSessions)
	}
	if l.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %v)", l.SweepInterval)
	}
	return nil
}
