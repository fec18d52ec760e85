package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxAttempts is the maximum number of fetch attempts per URL.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the base unit for backoff and cooldown waits.
	DefaultBaseDelay = 2 * time.Second

	// blockedCooldownFactor scales the base delay after an HTTP 403. A soft
	// block gets a deliberately longer cooldown than the standard backoff.
	blockedCooldownFactor = 5

	jitterMin = 500 * time.Millisecond
	jitterMax = 2 * time.Second
)

// DefaultUserAgent mimics a current desktop browser. Forum platforms serve
// reduced or blocked pages to obvious non-browser agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Result holds the raw content of a fetched page.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Options configures fetch behavior.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int
	BaseDelay   time.Duration
	Headers     map[string]string
}

// DefaultOptions returns sensible defaults for crawling.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Client fetches pages over a shared HTTP connection pool. The pool is the
// only resource shared across fetches within a crawler instance lifetime.
type Client struct {
	httpClient *http.Client
	options    *Options
}

// NewClient creates a fetch client.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		options:    opts,
	}
}

// Fetch retrieves the HTML of a page, retrying on transient failures with
// progressive backoff. An HTTP 403 is treated as a soft block: the client
// waits a longer cooldown before the next attempt instead of the standard
// backoff. referer may be empty. Content is returned raw; parse failures are
// the parser's responsibility.
func (c *Client) Fetch(ctx context.Context, urlStr, referer string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	blocked := false

	for attempt := 1; attempt <= c.options.MaxAttempts; attempt++ {
		result, err := c.doRequest(ctx, urlStr, referer)

		var wait time.Duration
		switch {
		case err != nil:
			blocked = false
			lastErr = err
			wait = c.backoffDelay(attempt)
		case result.StatusCode == http.StatusOK:
			return result, nil
		case result.StatusCode == http.StatusForbidden:
			// Probable bot detection. Cool down well beyond the normal
			// backoff before trying again.
			blocked = true
			lastErr = fmt.Errorf("HTTP 403 on attempt %d: %w", attempt, ErrBlocked)
			wait = blockedCooldownFactor * c.options.BaseDelay
		default:
			blocked = false
			lastErr = fmt.Errorf("HTTP %d on attempt %d: %w", result.StatusCode, attempt, ErrUnavailable)
			wait = c.backoffDelay(attempt)
		}

		if ctx.Err() != nil {
			break
		}
		if attempt < c.options.MaxAttempts {
			if err := sleepCtx(ctx, wait); err != nil {
				break
			}
		}
	}

	message := "all attempts failed"
	if blocked {
		message = "blocked after all attempts"
	}
	return nil, &Error{URL: urlStr, Message: message, Cause: lastErr}
}

func (c *Client) doRequest(ctx context.Context, urlStr, referer string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	for key, value := range c.options.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// backoffDelay computes the progressive backoff for a failed attempt:
// baseDelay * attempt plus 0.5-2.0s of jitter.
func (c *Client) backoffDelay(attempt int) time.Duration {
	jitter := jitterMin + time.Duration(rand.Int63n(int64(jitterMax-jitterMin)))
	return time.Duration(attempt)*c.options.BaseDelay + jitter
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
