// Package jobsapi is the client for the ingest and analytics backend.
package jobsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Request describes a single backend call. Path is relative to the client's
// base URL and may be given as several segments.
type Request struct {
	Method  string
	Path    []string
	Body    io.Reader
	Headers map[string]string
}

// Response is a decoded 2xx response. JSON holds the decoded value when the
// backend answered with application/json; otherwise Text holds the body.
type Response struct {
	StatusCode int
	IsJSON     bool
	JSON       any
	Text       string
}

// HTTPClient talks to the backend over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithLogger sets the logger used for request events.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewHTTPClient creates a backend client rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was configured with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// URL joins path segments onto the base URL, trimming slashes around each
// segment and skipping empty ones.
func (c *HTTPClient) URL(parts ...string) string {
	return c.baseURL + "/" + JoinPath(parts...)
}

// JoinPath joins URL path segments with single slashes.
func JoinPath(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// Do performs req and decodes the response. Non-2xx responses yield an
// *HTTPError; transport failures wrap ErrNetwork, or ErrAborted when ctx ended.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	u := c.URL(req.Path...)

	httpReq, err := http.NewRequestWithContext(ctx, method, u, req.Body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		err = classifyError(ctx, err)
		c.log.Warn("jobsapi.request.failed", "method", method, "url", u, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer resp.Body.Close()

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	c.log.Debug("jobsapi.request", "method", method, "url", u, "status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp, body, isJSON)
	}

	out := &Response{StatusCode: resp.StatusCode, IsJSON: isJSON}
	if !isJSON {
		out.Text = string(body)
		return out, nil
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out.JSON); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecode, u, err)
		}
	}
	return out, nil
}

// newHTTPError builds an HTTPError from an error response. A JSON body that
// fails to parse is treated as an empty object.
func newHTTPError(resp *http.Response, body []byte, isJSON bool) *HTTPError {
	herr := &HTTPError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}

	if !isJSON {
		herr.Payload = string(body)
		herr.Detail = string(body)
		return herr
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		payload = map[string]any{}
	}
	herr.Payload = payload
	herr.Detail = errorDetail(payload)
	return herr
}

func errorDetail(payload any) string {
	if obj, ok := payload.(map[string]any); ok {
		switch d := obj["detail"].(type) {
		case nil:
		case string:
			if d != "" {
				return d
			}
		default:
			if b, err := json.Marshal(d); err == nil {
				return string(b)
			}
		}
	}
	if s, ok := payload.(string); ok {
		return s
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

// Ready checks that the backend answers at all. Any HTTP response counts;
// only transport failures are reported.
func (c *HTTPClient) Ready(ctx context.Context) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet})
	var herr *HTTPError
	if errors.As(err, &herr) {
		return nil
	}
	return err
}
