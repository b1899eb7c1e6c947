// Package definitions looks up dictionary definitions for keywords. Lookups
// never fail: transport and decoding problems resolve to placeholder values.
package definitions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/seo-optimizer/contentlens/stats"
)

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout = 10 * time.Second

	NotFound     = "Definition not found"
	NotAvailable = "Definition not available"
	UnknownPOS   = "unknown"

	maxConcurrentLookups = 5
)

// Definition is the first meaning a dictionary reports for a word.
type Definition struct {
	Definition   string   `json:"definition"`
	Synonyms     []string `json:"synonyms"`
	PartOfSpeech string   `json:"partOfSpeech"`
}

func unavailable() Definition {
	return Definition{Definition: NotAvailable, Synonyms: []string{}, PartOfSpeech: UnknownPOS}
}

// Cache holds the definitions resolved during one session. Only successful
// responses are stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Definition
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Definition)}
}

func (c *Cache) get(word string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[word]
	return d, ok
}

func (c *Cache) put(word string, d Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[word] = d
}

// Len returns the number of cached definitions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Client queries a dictionaryapi.dev compatible service.
type Client struct {
	baseURL  string
	client   *http.Client
	recorder stats.Recorder
	logger   zerolog.Logger
	group    singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another dictionary endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRecorder reports lookup counters.
func WithRecorder(r stats.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type entry struct {
	Meanings []struct {
		PartOfSpeech string   `json:"partOfSpeech"`
		Synonyms     []string `json:"synonyms"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup returns the definition of word, consulting cache first. A nil
// cache disables caching. Concurrent lookups of the same word share one
// request, which runs detached from any single caller's context; each
// caller still stops waiting when its own ctx is done.
func (c *Client) Lookup(ctx context.Context, cache *Cache, word string) Definition {
	if cache != nil {
		if d, ok := cache.get(word); ok {
			return d
		}
	}

	ch := c.group.DoChan(word, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()

		d, err := c.fetch(fetchCtx, word)
		if err != nil {
			c.record(stats.Delta{DefinitionLookups: 1, DefinitionFailures: 1})
			c.logger.Warn().Str("word", word).Err(err).Msg("definition lookup failed")
			return nil, err
		}
		c.record(stats.Delta{DefinitionLookups: 1})
		return d, nil
	})

	select {
	case <-ctx.Done():
		return unavailable()
	case res := <-ch:
		if res.Err != nil {
			return unavailable()
		}
		d := res.Val.(Definition)
		if cache != nil {
			cache.put(word, d)
		}
		return d
	}
}

// LookupAll resolves every word concurrently. The result has one entry per
// distinct word.
func (c *Client) LookupAll(ctx context.Context, cache *Cache, words []string) map[string]Definition {
	var mu sync.Mutex
	result := make(map[string]Definition, len(words))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, word := range words {
		g.Go(func() error {
			d := c.Lookup(ctx, cache, word)
			mu.Lock()
			result[word] = d
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (c *Client) fetch(ctx context.Context, word string) (Definition, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to query dictionary: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(body) {
		return Definition{}, fmt.Errorf("invalid JSON response (HTTP %d)", resp.StatusCode)
	}

	// unknown words come back as a JSON object, which leaves entries empty
	var entries []entry
	_ = json.Unmarshal(body, &entries)

	return firstMeaning(entries), nil
}

func firstMeaning(entries []entry) Definition {
	d := Definition{Definition: NotFound, Synonyms: []string{}, PartOfSpeech: UnknownPOS}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return d
	}

	m := entries[0].Meanings[0]
	if len(m.Definitions) > 0 && m.Definitions[0].Definition != "" {
		d.Definition = m.Definitions[0].Definition
	}
	if len(m.Synonyms) > 0 {
		d.Synonyms = m.Synonyms
	}
	if m.PartOfSpeech != "" {
		d.PartOfSpeech = m.PartOfSpeech
	}
	return d
}

func (c *Client) record(d stats.Delta) {
	if c.recorder != nil {
		c.recorder.Increment(d)
	}
}
