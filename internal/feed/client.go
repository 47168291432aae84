// Package feed fetches the published spreadsheet CSV export over HTTP.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds one fetch; the in-flight request is canceled when
// it elapses.
const DefaultTimeout = 15 * time.Second

// ErrTimeout reports that the fetch was canceled by its timeout.
var ErrTimeout = errors.New("feed: request timed out")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed: unexpected response status %s", e.Status)
}

// Client fetches CSV text from a published sheet URL. The request URL gets
// a cache-busting query parameter per fetch so intermediaries never serve
// a stale export, and is optionally wrapped through a CORS-relay prefix.
type Client struct {
	url         string
	relayPrefix string
	timeout     time.Duration
	client      *http.Client
	now         func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRelayPrefix prepends a relay URL to every request.
func WithRelayPrefix(prefix string) Option {
	return func(c *Client) {
		c.relayPrefix = prefix
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithClock sets the clock used for cache busting.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a feed client for the given CSV export URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:     url,
		timeout: DefaultTimeout,
		client:  &http.Client{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the full CSV document. Failures are one of: ErrTimeout,
// *StatusError, or a wrapped transport error. No retries; the next poll
// cycle is the retry.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return "", fmt.Errorf("feed: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("feed: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("feed: read body: %w", err)
	}
	return string(body), nil
}

func (c *Client) requestURL() string {
	sep := "?"
	if strings.Contains(c.url, "?") {
		sep = "&"
	}
	u := c.url + sep + "t=" + strconv.FormatInt(c.now().UnixMilli(), 10)
	return c.relayPrefix + u
}
