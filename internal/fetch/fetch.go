// Package fetch retrieves page content through an ordered chain of
// strategies: a plain request, a retrying cookie session and a headless
// browser. The first strategy that returns content wins.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grahampellegrini/pb-tracker/internal/logger"
)

// MinContentLength is the smallest rendered page accepted from the browser
const MinContentLength = 500

var (
	// ErrNoContent is returned when every strategy in a chain failed
	ErrNoContent = errors.New("no strategy returned content")

	// ErrUnavailable marks a strategy that cannot run on this machine
	ErrUnavailable = errors.New("strategy unavailable")
)

// Fetcher retrieves the body of a page
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Observer receives the duration of every strategy attempt
type Observer func(strategy string, elapsed time.Duration)

// Options configures the standard strategies
type Options struct {
	Timeout           time.Duration
	Attempts          int
	RetryMinDelay     time.Duration
	RetryMaxDelay     time.Duration
	Browser           bool
	BrowserPath       string
	NavigationTimeout time.Duration
	RenderDelay       time.Duration
}

// Chain tries fetchers in order
type Chain struct {
	fetchers []Fetcher
	observe  Observer
	log      *logger.Logger
}

// NewChain creates a chain. A nil logger uses the default logger and a nil
// observer discards timings.
func NewChain(log *logger.Logger, observe Observer, fetchers ...Fetcher) *Chain {
	if log == nil {
		log = logger.Default()
	}
	if observe == nil {
		observe = func(string, time.Duration) {}
	}
	return &Chain{fetchers: fetchers, observe: observe, log: log}
}

// Standard builds the full chain: direct, session, then browser.
func Standard(opts Options, log *logger.Logger, observe Observer) *Chain {
	return NewChain(log, observe,
		NewDirect(opts.Timeout),
		NewSession(opts.Timeout, opts.Attempts, opts.RetryMinDelay, opts.RetryMaxDelay),
		NewBrowser(opts.Browser, opts.BrowserPath, opts.NavigationTimeout, opts.RenderDelay),
	)
}

// Lightweight builds a chain without the browser, for high-volume lookups.
func Lightweight(opts Options, log *logger.Logger, observe Observer) *Chain {
	return NewChain(log, observe,
		NewDirect(opts.Timeout),
		NewSession(opts.Timeout, opts.Attempts, opts.RetryMinDelay, opts.RetryMaxDelay),
	)
}

// Name implements Fetcher
func (c *Chain) Name() string { return "chain" }

// Fetch returns the content from the first strategy that succeeds
func (c *Chain) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error = ErrUnavailable

	for _, f := range c.fetchers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields := logger.Fields{"strategy": f.Name(), "url": url}
		c.log.Debug("Fetching page", fields)

		start := time.Now()
		body, err := f.Fetch(ctx, url)
		elapsed := time.Since(start)

		if errors.Is(err, ErrUnavailable) {
			c.log.Debug("Strategy unavailable, skipping", fields)
			continue
		}
		c.observe(f.Name(), elapsed)

		if err != nil {
			lastErr = err
			c.log.Warn("Fetch strategy failed", logger.Fields{
				"strategy": f.Name(),
				"url":      url,
				"error":    err.Error(),
			})
			continue
		}

		c.log.Debug("Fetched page", logger.Fields{
			"strategy":   f.Name(),
			"url":        url,
			"bytes":      len(body),
			"elapsed_ms": elapsed.Milliseconds(),
		})
		return body, nil
	}

	return nil, fmt.Errorf("%w for %s: %w", ErrNoContent, url, lastErr)
}
