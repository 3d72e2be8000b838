// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/jeranaias/heritage-tui/internal/logging"
)

// Configuration constants for the heritage backend.
const (
	// DefaultBaseURL is where the backend listens in development.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every non-streaming request.
	DefaultTimeout = 30 * time.Second

	// UserIDHeader carries the caller's identity on authenticated routes.
	UserIDHeader = "user-id"

	// MaxResponseSize caps non-streaming response bodies.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient has no timeout. A reply stream lives as long as
	// the backend keeps writing; the caller's context is the only limit.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the heritage backend. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string

	httpClient   *http.Client
	streamClient *http.Client
	logger       *log.Logger

	mu     sync.RWMutex
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for request/response calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithStreamClient sets the client used for the chat stream. It should not
// carry an overall timeout.
func WithStreamClient(hc *http.Client) Option {
	return func(c *Client) { c.streamClient = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithUserID presets the authenticated user id.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// New creates a client for the backend at baseURL. An empty baseURL means
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("base url %q has no host", baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    "heritage-tui",
		httpClient:   sharedHTTPClient,
		streamClient: sharedStreamingClient,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUserID sets the identity sent with authenticated requests. An empty
// id logs the client out.
func (c *Client) SetUserID(id string) {
	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
}

// UserID returns the current identity.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// newRequest builds a request with the common headers. body is marshaled
// as JSON when non-nil.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if authed {
		id := c.UserID()
		if id == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set(UserIDHeader, id)
	}
	return req, nil
}

// doJSON sends the request and decodes a 2xx body into out (if non-nil).
// Non-2xx responses become *StatusError.
func (c *Client) doJSON(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", req.Method, "path", req.URL.Path, "err", err)
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return errors.Wrap(err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Detail: parseDetail(body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

// parseDetail extracts the "detail" string from an error body. Validation
// failures carry a list instead; the first entry's "msg" is used.
func parseDetail(body []byte) string {
	var plain struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &plain); err == nil {
		return plain.Detail
	}
	var list struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list.Detail) > 0 {
		return list.Detail[0].Msg
	}
	return ""
}

// isTransportError reports whether err happened before any response was
// received (refused connection, DNS failure, timeout).
func isTransportError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}
