package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/net/publicsuffix"

	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/logger"
	"github.com/j-drayer/discovery-cli/internal/metrics"
)

// Ensure Client implements the interface.
var _ driven.Dispatcher = (*Client)(nil)

// Client dispatches requests to the data service.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is
// replaced when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimiter throttles requests through l.
func WithRateLimiter(l *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a client for the service at baseURL. The base address
// cannot change afterwards.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	if c.limiter == nil {
		c.limiter = NewRateLimiter(0)
	}
	return c, nil
}

// BaseURL returns the base address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL resolves path against the base address.
func (c *Client) URL(path string) string {
	return c.base.String() + "/" + strings.TrimLeft(path, "/")
}

// Dispatch performs exactly one HTTP exchange. Any status is returned as a
// Response; transport faults are returned as *TransportError.
func (c *Client) Dispatch(ctx context.Context, req driven.Request) (*driven.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.target(req)
	if err != nil {
		return nil, err
	}

	fault := func(err error) error {
		return &TransportError{Method: method, URL: target, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fault(err)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		ct := req.ContentType
		if ct == "" {
			ct = driven.ContentTypeText
		}
		httpReq.Header.Set("Content-Type", ct)
	}

	label := metricPath(req.Path)
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveDispatch(method, label, 0, time.Since(start))
		logger.Debug("%s %s failed: %v", method, target, err)
		return nil, fault(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	metrics.ObserveDispatch(method, label, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fault(fmt.Errorf("reading body: %w", err))
	}
	c.limiter.Observe(resp)

	logger.Debug("%s %s -> %d (%d bytes, %s)", method, target, resp.StatusCode, len(data), time.Since(start).Round(time.Millisecond))

	return &driven.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// target builds the absolute request URL including encoded parameters.
func (c *Client) target(req driven.Request) (string, error) {
	u, err := url.Parse(c.URL(req.Path))
	if err != nil {
		return "", fmt.Errorf("%w: path %q", ErrInvalidBaseURL, req.Path)
	}
	if req.Params != nil {
		values, err := query.Values(req.Params)
		if err != nil {
			return "", fmt.Errorf("encoding params: %w", err)
		}
		u.RawQuery = values.Encode()
	}
	return u.String(), nil
}

// metricPath replaces dataset IDs so metric labels stay bounded.
func metricPath(path string) string {
	const prefix = "/api/v1/dataset/"
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || rest == "search" {
		return path
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return prefix + "{id}" + rest[i:]
	}
	return prefix + "{id}"
}
