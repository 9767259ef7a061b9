package fetch

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// browserBinaries are looked up on PATH when no explicit path is set
var browserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// Browser renders pages in headless Chrome for sites that build their
// content with JavaScript.
type Browser struct {
	enabled     bool
	execPath    string
	navTimeout  time.Duration
	renderDelay time.Duration
	lookPath    func(string) (string, error)
}

// NewBrowser creates the browser strategy. A disabled browser, or one with
// no Chrome binary installed, reports ErrUnavailable.
func NewBrowser(enabled bool, execPath string, navTimeout, renderDelay time.Duration) *Browser {
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	return &Browser{
		enabled:     enabled,
		execPath:    execPath,
		navTimeout:  navTimeout,
		renderDelay: renderDelay,
		lookPath:    exec.LookPath,
	}
}

// Name implements Fetcher
func (b *Browser) Name() string { return "browser" }

// Available returns the browser binary that would be launched
func (b *Browser) Available() (string, bool) {
	if !b.enabled {
		return "", false
	}
	if b.execPath != "" {
		path, err := b.lookPath(b.execPath)
		return path, err == nil
	}
	for _, name := range browserBinaries {
		if path, err := b.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Fetch implements Fetcher
func (b *Browser) Fetch(ctx context.Context, url string) ([]byte, error) {
	path, ok := b.Available()
	if !ok {
		return nil, ErrUnavailable
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.UserAgent(UserAgents[0]),
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	// Launch outside the navigation deadline.
	if err := chromedp.Run(taskCtx); err != nil {
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(taskCtx, b.navTimeout)
	defer cancelNav()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.renderDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", url, err)
	}

	if len(html) < MinContentLength {
		return nil, fmt.Errorf("rendered page too short: %d bytes", len(html))
	}
	return []byte(html), nil
}
