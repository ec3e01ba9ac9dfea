package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/edudata/schoolscan/internal/config"
)

// Fetcher retrieves single pages over HTTP with browser-like request
// headers and a bounded response body size. School sites frequently sit
// behind anti-bot front ends that reject requests without a familiar
// User-Agent, so the defaults mimic a desktop browser.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	headers     map[string]string
	cookie      string
}

// FetcherOption is a functional option for configuring a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) FetcherOption {
	return func(f *Fetcher) {
		if agent != "" {
			f.userAgent = agent
		}
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
// Bodies larger than the cap are silently truncated.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHeaders adds extra request headers, applied after the defaults so
// a site-specific header can override them.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithCookie sets a raw Cookie header. Some directory sites only serve
// full listings to sessions that carry their consent cookie.
func WithCookie(cookie string) FetcherOption {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// NewFetcher creates a Fetcher with the given HTTP client and options.
// If client is nil, a default client with a sane timeout is used.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{
			Timeout: config.DefaultTimeout,
		}
	}

	f := &Fetcher{
		client:      client,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs a GET request against pageURL and returns the response
// body as a string. Any non-2xx status is reported as an error: callers
// treat such pages exactly like network failures and skip them.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	limited := io.LimitReader(resp.Body, f.maxBodySize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	return string(body), nil
}
