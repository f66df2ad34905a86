// Package upstream implements the repository interfaces against the upstream
// posts/comments REST API.
//
// Every operation issues exactly one GET. Outcomes are normalized into two buckets of
// entity.UpstreamError: "Resource Not Found" (HTTP 404, or an empty list where the
// contract requires a non-empty one) and "System Error" (every other failure, carrying
// the upstream status). Nothing is retried or cached.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"audition-api/internal/domain/entity"
	"audition-api/internal/repository"

	"github.com/sony/gobreaker"
)

const (
	resourcePosts    = "posts"
	resourceComments = "comments"
)

// errEmptyBody is returned by get when a 2xx response carries no payload.
var errEmptyBody = errors.New("empty response body")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
}

// Error renders the status like "404 Not Found".
func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client performs GET requests against the upstream API and decodes JSON responses.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	maxBodySize int64
	metrics     MetricsRecorder
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the RoundTripper used for upstream calls, typically built with Chain.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithMetrics sets the metrics recorder. The default discards measurements.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("upstream config: %w", err)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	c := &Client{
		baseURL:     base,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxBodySize: cfg.MaxBodySize,
		metrics:     NoopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint builds the absolute URI for the given path segments, adding one query
// parameter per filter entry.
func (c *Client) endpoint(filters repository.Filters, segments ...string) string {
	u := c.baseURL.JoinPath(segments...)
	if len(filters) > 0 {
		q := make(url.Values, len(filters))
		for k, v := range filters {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// get issues a GET to uri and decodes the JSON body into out.
//
// Returns:
//   - nil: 2xx with a decodable body
//   - errEmptyBody: 2xx with a zero-length body (out is left untouched)
//   - *StatusError: non-2xx response
//   - any other error: transport, size or decode failure
func (c *Client) get(ctx context.Context, resource, uri string, out any) error {
	start := time.Now()
	outcome := OutcomeSuccess
	defer func() {
		c.metrics.RecordRequest(resource, outcome, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		outcome = OutcomeTransportError
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = OutcomeTransportError
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch {
		case resp.StatusCode == http.StatusNotFound:
			outcome = OutcomeNotFound
		case resp.StatusCode >= 500:
			outcome = OutcomeServerError
		default:
			outcome = OutcomeClientError
		}
		return &StatusError{StatusCode: resp.StatusCode, URL: uri}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		outcome = OutcomeTransportError
		return fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		outcome = OutcomeDecodeError
		return fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		outcome = OutcomeEmpty
		return errEmptyBody
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = OutcomeDecodeError
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// translate maps a failure from get into an entity.UpstreamError.
// A 404 becomes "Resource Not Found" with notFoundMsg; any other status keeps its code.
// Failures without an HTTP status surface as 502, or 503 while the circuit is open.
func translate(err error, notFoundMsg string) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return entity.NotFound(notFoundMsg, err)
		}
		return entity.SystemError(statusErr.Error(), statusErr.StatusCode, err)
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return entity.SystemError("upstream temporarily unavailable", http.StatusServiceUnavailable, err)
	}
	return entity.SystemError(err.Error(), http.StatusBadGateway, err)
}
