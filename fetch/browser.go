package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser returns the rendered outer HTML of a page using headless Chrome.
// It is safe for concurrent use. Close must be called when done.
type Browser struct {
	browser *rod.Browser
	launch  *launcher.Launcher
}

// NewBrowser launches a headless browser, downloading Chromium if needed.
func NewBrowser() (*Browser, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, launch: l}, nil
}

// Fetch navigates to url, waits for the load event and returns the DOM
// serialized as HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for %s: %w", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading rendered HTML: %w", err)
	}
	return html, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launch.Kill()
	return err
}

// LazyBrowser launches the browser on the first Fetch, so servers that
// rarely render pages do not pay for Chrome at startup.
type LazyBrowser struct {
	mu      sync.Mutex
	browser *Browser
}

// Fetch launches the browser if needed and fetches url.
func (l *LazyBrowser) Fetch(ctx context.Context, url string) (string, error) {
	l.mu.Lock()
	if l.browser == nil {
		b, err := NewBrowser()
		if err != nil {
			l.mu.Unlock()
			return "", err
		}
		l.browser = b
	}
	b := l.browser
	l.mu.Unlock()

	return b.Fetch(ctx, url)
}

// Close shuts the browser down if it was launched.
func (l *LazyBrowser) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.browser == nil {
		return nil
	}
	err := l.browser.Close()
	l.browser = nil
	return err
}
