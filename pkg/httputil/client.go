// Package httputil provides HTTP client utilities with standard configurations.
package httputil

import (
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second

	// Scrape targets reject obvious bot agents; use a browser string.
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is configured with connection pooling and idle connection management.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	}
}

// NewDefaultHTTPClient creates a new HTTP client with the default 30 second timeout.
func NewDefaultHTTPClient() *http.Client {
	return NewHTTPClient(defaultTimeout)
}

type userAgentTransport struct {
	inner http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", browserUserAgent)
	}
	return t.inner.RoundTrip(req)
}

// NewScrapeClient creates an HTTP client for scraping HTML sites. It sends a
// browser user agent on every request.
func NewScrapeClient(timeout time.Duration) *http.Client {
	c := NewHTTPClient(timeout)
	c.Transport = &userAgentTransport{inner: c.Transport}
	return c
}
