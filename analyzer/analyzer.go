// Package analyzer runs the full content analysis of a page and assembles
// the report the exports are rendered from.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/seo-optimizer/contentlens/audit"
	"github.com/seo-optimizer/contentlens/extract"
	"github.com/seo-optimizer/contentlens/keywords"
	"github.com/seo-optimizer/contentlens/stats"
	"github.com/seo-optimizer/contentlens/textstat"
)

var (
	// ErrInvalidURL is returned when the page URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrRenderUnavailable is returned when a rendered fetch is requested
	// but no browser fetcher is configured.
	ErrRenderUnavailable = errors.New("rendered fetch not available")
)

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// LinkChecker counts unreachable link targets.
type LinkChecker interface {
	CountBroken(ctx context.Context, targets []string) int
}

// Analyzer performs SEO content analysis. It keeps no per-page state and is
// safe for concurrent use.
type Analyzer struct {
	fetcher  Fetcher
	browser  Fetcher
	links    LinkChecker
	recorder stats.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher sets the fetcher used by Analyze.
func WithFetcher(f Fetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithBrowserFetcher sets the fetcher used by Analyze for rendered pages.
func WithBrowserFetcher(f Fetcher) Option {
	return func(a *Analyzer) { a.browser = f }
}

// WithLinkChecker enables broken link counting.
func WithLinkChecker(c LinkChecker) Option {
	return func(a *Analyzer) { a.links = c }
}

// WithStats records analysis counters.
func WithStats(r stats.Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithClock overrides the time source of report timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates a new Analyzer instance
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches pageURL and analyzes it. render selects the browser
// fetcher.
func (a *Analyzer) Analyze(ctx context.Context, pageURL string, render bool) (*Report, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	fetcher := a.fetcher
	if render {
		fetcher = a.browser
		if fetcher == nil {
			return nil, ErrRenderUnavailable
		}
	}
	if fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}

	start := a.now()
	html, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		a.record(stats.Delta{AnalysisFailures: 1})
		a.logger.Warn().Str("url", pageURL).Err(err).Msg("fetch failed")
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	a.logger.Debug().Str("url", pageURL).Dur("duration", a.now().Sub(start)).Int("bytes", len(html)).Msg("page fetched")

	return a.AnalyzeHTML(ctx, html, pageURL)
}

// AnalyzeHTML parses html and analyzes it as the page at pageURL.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, html, pageURL string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		a.record(stats.Delta{AnalysisFailures: 1})
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return a.AnalyzeDocument(ctx, doc, pageURL), nil
}

// AnalyzeDocument runs every analysis over doc and returns a fresh report.
// The document is not modified.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc *goquery.Document, pageURL string) *Report {
	start := a.now()

	blocks := extract.FromDocument(doc)
	kw := keywords.Analyze(blocks)

	contents := make([]string, len(blocks))
	for i, b := range blocks {
		contents[i] = b.Content
	}
	readability := textstat.ComputeStats(strings.Join(contents, " "))

	technical := audit.Technical(doc, pageURL)
	if a.links != nil {
		technical.Links.Broken = a.links.CountBroken(ctx, audit.LinkTargets(doc, pageURL))
	}

	r := &Report{
		WordFrequency:    kw.Frequency,
		KeywordDensity:   kw.Density,
		ReadabilityStats: readability,
		MetaInfo:         audit.Meta(doc, pageURL),
		TechnicalSEO:     technical,
		URL:              pageURL,
		Timestamp:        a.now().UTC().Format(TimestampFormat),
		Blocks:           blocks,
		Keywords:         kw,
	}

	a.record(stats.Delta{Analyses: 1})
	a.logger.Info().
		Str("url", pageURL).
		Int("words", readability.WordCount).
		Int("blocks", len(blocks)).
		Int("flesch", readability.FleschScore).
		Dur("duration", a.now().Sub(start)).
		Msg("analysis complete")

	return r
}

// ValidateURL checks that raw is an absolute http or https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

func (a *Analyzer) record(d stats.Delta) {
	if a.recorder != nil {
		a.recorder.Increment(d)
	}
}
