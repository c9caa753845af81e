package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/quickdict/internal/config"
	"github.com/heartmarshall/quickdict/internal/domain"
)

const (
	defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	defaultTimeout = 10 * time.Second
)

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from configuration. Empty fields fall back
// to the public API URL and a 10s timeout.
func NewProvider(cfg config.DictionaryConfig, logger *slog.Logger) *Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Provider{
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return NewProvider(config.DictionaryConfig{BaseURL: baseURL}, logger)
}

// FetchEntries fetches the dictionary entries for an already validated word.
// It makes exactly one request. A 404 yields domain.ErrNotFound; any other
// failure (network, non-200 status, unreadable or malformed body) wraps
// domain.ErrTransport.
func (p *Provider) FetchEntries(ctx context.Context, word string) ([]domain.Entry, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(word)

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w: %w", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "freedict request failed", slog.String("word", word), slog.String("error", err.Error()))
		return nil, fmt.Errorf("freedict: request failed: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		p.log.DebugContext(ctx, "freedict word not found", slog.String("word", word))
		return nil, fmt.Errorf("freedict: %q: %w", word, domain.ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		p.log.WarnContext(ctx, "freedict unexpected status", slog.String("word", word), slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("freedict: unexpected status %d: %w", resp.StatusCode, domain.ErrTransport)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w: %w", domain.ErrTransport, err)
	}

	var raw []apiEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w: %w", domain.ErrTransport, err)
	}

	entries := mapAPIResponse(raw)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("word", word),
		slog.Int("status", resp.StatusCode),
		slog.Int("entries", len(entries)),
		slog.Duration("duration", time.Since(start)),
	)

	return entries, nil
}

// pingWord is looked up by Ping; any answer the API gives for it proves the
// service is reachable.
const pingWord = "hello"

// Ping checks that the API answers. 200 and 404 both count as up.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+pingWord, nil)
	if err != nil {
		return fmt.Errorf("freedict: ping: %w: %w", domain.ErrTransport, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("freedict: ping: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("freedict: ping: unexpected status %d: %w", resp.StatusCode, domain.ErrTransport)
	}
	return nil
}

// mapAPIResponse converts the API entries into domain entries, preserving
// order. Phonetics are kept verbatim so the first-match searches see the
// same list the API returned; synonyms are de-duplicated in order.
func mapAPIResponse(raw []apiEntry) []domain.Entry {
	entries := make([]domain.Entry, 0, len(raw))

	for _, re := range raw {
		entry := domain.Entry{
			Word:       re.Word,
			Phonetics:  make([]domain.Phonetic, 0, len(re.Phonetics)),
			Meanings:   make([]domain.Meaning, 0, len(re.Meanings)),
			SourceURLs: re.SourceURLs,
		}

		for _, ph := range re.Phonetics {
			entry.Phonetics = append(entry.Phonetics, domain.Phonetic{
				Text:  strings.TrimSpace(ph.Text),
				Audio: strings.TrimSpace(ph.Audio),
			})
		}

		for _, m := range re.Meanings {
			meaning := domain.Meaning{
				PartOfSpeech: m.PartOfSpeech,
				Synonyms:     dedupe(m.Synonyms),
				Definitions:  make([]domain.Definition, 0, len(m.Definitions)),
			}
			for _, d := range m.Definitions {
				meaning.Definitions = append(meaning.Definitions, domain.Definition{
					Definition: d.Definition,
					Example:    d.Example,
				})
			}
			entry.Meanings = append(entry.Meanings, meaning)
		}

		entries = append(entries, entry)
	}

	return entries
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
