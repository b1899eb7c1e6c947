// Package fetch retrieves page HTML for analysis, either with a plain HTTP
// GET or through a headless browser for pages that render client-side.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "ContentLens/1.0"

	// DefaultMaxBodySize caps the page size accepted by Fetch.
	DefaultMaxBodySize = 10 << 20
)

// ErrBodyTooLarge is returned when a page exceeds the body size limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Transport is the shared connection pool used by the HTTP clients of this
// module.
func Transport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// HTTP fetches static HTML over plain HTTP.
type HTTP struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// Option configures an HTTP fetcher.
type Option func(*HTTP)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTP) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTP) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the largest body Fetch accepts, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTP) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// NewHTTP creates an HTTP fetcher.
func NewHTTP(opts ...Option) *HTTP {
	f := &HTTP{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: Transport(),
	}
	return f
}

// Fetch returns the body of url. Any non-2xx status is an error, and so is
// a body larger than the configured limit.
func (f *HTTP) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, f.maxBody)
	}
	return string(body), nil
}

// Close is a no-op.
func (f *HTTP) Close() error {
	return nil
}
