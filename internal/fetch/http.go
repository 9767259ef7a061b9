package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// UserAgents are the desktop browsers impersonated by the HTTP strategies
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// StatusError is returned for a non-2xx response
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

func get(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

// Direct performs a single request with browser-like headers
type Direct struct {
	client    *http.Client
	userAgent string
}

// NewDirect creates the plain request strategy
func NewDirect(timeout time.Duration) *Direct {
	return &Direct{
		client:    &http.Client{Timeout: timeout},
		userAgent: UserAgents[0],
	}
}

// Name implements Fetcher
func (d *Direct) Name() string { return "direct" }

// Fetch implements Fetcher
func (d *Direct) Fetch(ctx context.Context, url string) ([]byte, error) {
	return get(ctx, d.client, url, d.userAgent)
}

// Session keeps cookies across requests and retries with a randomised
// pause, switching user agent on every attempt.
type Session struct {
	client   *http.Client
	attempts int
	minDelay time.Duration
	maxDelay time.Duration
	agent    atomic.Uint64
}

// NewSession creates the retrying session strategy
func NewSession(timeout time.Duration, attempts int, minDelay, maxDelay time.Duration) *Session {
	// cookiejar.New only fails for a broken PublicSuffixList option
	jar, _ := cookiejar.New(nil)
	if attempts < 1 {
		attempts = 1
	}
	return &Session{
		client:   &http.Client{Timeout: timeout, Jar: jar},
		attempts: attempts,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Name implements Fetcher
func (s *Session) Name() string { return "session" }

// Fetch implements Fetcher
func (s *Session) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	operation := func() error {
		ua := UserAgents[int(s.agent.Add(1)-1)%len(UserAgents)]
		b, err := get(ctx, s.client, url, ua)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	if err := backoff.Retry(operation, s.policy(ctx)); err != nil {
		return nil, fmt.Errorf("after %d attempts: %w", s.attempts, err)
	}
	return body, nil
}

// policy waits a uniformly random interval in [minDelay, maxDelay]
// between attempts.
func (s *Session) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if s.maxDelay > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = (s.minDelay + s.maxDelay) / 2
		exp.RandomizationFactor = float64(s.maxDelay-s.minDelay) / float64(s.maxDelay+s.minDelay)
		exp.Multiplier = 1
		exp.MaxInterval = s.maxDelay
		exp.MaxElapsedTime = 0
		b = exp
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.attempts-1)), ctx)
}
