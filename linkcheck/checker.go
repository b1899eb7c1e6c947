// Package linkcheck probes link targets and counts the ones that are not
// reachable. Results are cached for a TTL so repeated analyses of pages on
// the same site do not re-probe every link.
package linkcheck

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/seo-optimizer/contentlens/stats"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 10
	DefaultRPS         = 5
	DefaultTTL         = 10 * time.Minute
	DefaultMaxEntries  = 10000
)

type cacheEntry struct {
	accessible bool
	timestamp  time.Time
}

// Checker issues HEAD requests with bounded concurrency and a per-host rate
// limit. It is safe for concurrent use.
type Checker struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	rps         float64
	ttl         time.Duration
	maxEntries  int
	userAgent   string
	recorder    stats.Recorder
	logger      zerolog.Logger
	now         func() time.Time

	mu    sync.Mutex
	cache map[uint64]cacheEntry

	limitMu  sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithConcurrency caps the number of probes in flight.
func WithConcurrency(n int) Option {
	return func(c *Checker) { c.concurrency = n }
}

// WithRPS sets the per-host request rate. Zero or less disables limiting.
func WithRPS(rps float64) Option {
	return func(c *Checker) { c.rps = rps }
}

// WithTTL sets how long a probe result stays cached.
func WithTTL(d time.Duration) Option {
	return func(c *Checker) { c.ttl = d }
}

// WithMaxEntries caps the cache size.
func WithMaxEntries(n int) Option {
	return func(c *Checker) { c.maxEntries = n }
}

// WithUserAgent sets the User-Agent header of probes.
func WithUserAgent(ua string) Option {
	return func(c *Checker) { c.userAgent = ua }
}

// WithRecorder reports cache hits and misses.
func WithRecorder(r stats.Recorder) Option {
	return func(c *Checker) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *Checker) { c.client = client }
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		rps:         DefaultRPS,
		ttl:         DefaultTTL,
		maxEntries:  DefaultMaxEntries,
		userAgent:   "ContentLens/1.0",
		logger:      zerolog.Nop(),
		now:         time.Now,
		cache:       make(map[uint64]cacheEntry),
		limiters:    make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// CountBroken probes every target and returns how many are unreachable.
// Canceling ctx stops outstanding probes; targets not probed are not
// counted.
func (c *Checker) CountBroken(ctx context.Context, targets []string) int {
	var (
		mu     sync.Mutex
		broken int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, target := range targets {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if !c.Accessible(ctx, target) {
				mu.Lock()
				broken++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Debug().Int("links", len(targets)).Int("broken", broken).Msg("link check finished")
	return broken
}

// Accessible reports whether target answers with a 2xx or 3xx status.
func (c *Checker) Accessible(ctx context.Context, target string) bool {
	key := xxhash.Sum64String(target)

	c.mu.Lock()
	entry, found := c.cache[key]
	c.mu.Unlock()
	if found && c.now().Sub(entry.timestamp) < c.ttl {
		c.record(stats.Delta{LinkCacheHits: 1})
		return entry.accessible
	}
	c.record(stats.Delta{LinkCacheMisses: 1})

	if err := c.wait(ctx, target); err != nil {
		return false
	}

	accessible := c.probe(ctx, http.MethodHead, target)
	if !accessible && ctx.Err() == nil {
		// some servers reject HEAD outright
		accessible = c.probe(ctx, http.MethodGet, target)
	}
	if ctx.Err() != nil {
		return accessible
	}

	c.store(key, accessible)
	return accessible
}

func (c *Checker) probe(ctx context.Context, method, target string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Str("url", target).Err(err).Msg("link probe failed")
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func (c *Checker) wait(ctx context.Context, target string) error {
	if c.rps <= 0 {
		return nil
	}
	host := target
	if u, err := url.Parse(target); err == nil {
		host = u.Hostname()
	}

	c.limitMu.Lock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(c.rps), 1)
		c.limiters[host] = limiter
	}
	c.limitMu.Unlock()

	return limiter.Wait(ctx)
}

func (c *Checker) store(key uint64, accessible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.cache) >= c.maxEntries {
		for k, e := range c.cache {
			if now.Sub(e.timestamp) >= c.ttl {
				delete(c.cache, k)
			}
		}
	}
	if len(c.cache) >= c.maxEntries {
		// still full: drop an arbitrary entry
		for k := range c.cache {
			delete(c.cache, k)
			break
		}
	}
	c.cache[key] = cacheEntry{accessible: accessible, timestamp: now}
}

func (c *Checker) record(d stats.Delta) {
	if c.recorder != nil {
		c.recorder.Increment(d)
	}
}

// Len returns the number of cached results.
func (c *Checker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
