// Package api implements the HTTP client for the token usage backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/j-veylop/token-usage-tui/internal/logger"
)

const (
	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 15 * time.Second

	apiPrefix = "/api"
)

// Client issues JSON requests against the backend's /api routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a client passed
// through WithHTTPClient too, without modifying that client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the backend at baseURL (scheme and host, no /api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs a GET on endpoint (relative to /api), checks the
// {success, data} envelope and decodes data into out. out may be nil.
func (c *Client) Request(ctx context.Context, endpoint string, query url.Values, out any) error {
	data, err := c.fetchData(ctx, endpoint, query)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(endpoint, data, out)
}

// fetchData performs the request and returns the envelope's data member.
func (c *Client) fetchData(ctx context.Context, endpoint string, query url.Values) (gjson.Result, error) {
	status, body, err := c.get(ctx, endpoint, query)
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		if !isSuccess(status) {
			return gjson.Result{}, &APIError{Endpoint: endpoint, Status: status, Message: httpErrorMessage(status)}
		}
		return gjson.Result{}, &DataShapeError{Endpoint: endpoint, Reason: "response is not valid JSON"}
	}

	root := gjson.ParseBytes(body)

	if !isSuccess(status) {
		msg := root.Get("error").String()
		if msg == "" {
			msg = httpErrorMessage(status)
		}
		return gjson.Result{}, &APIError{Endpoint: endpoint, Status: status, Message: msg}
	}

	success := root.Get("success")
	if !success.Exists() {
		return gjson.Result{}, &DataShapeError{Endpoint: endpoint, Field: "success", Reason: "is missing"}
	}
	if success.Type != gjson.True && success.Type != gjson.False {
		return gjson.Result{}, &DataShapeError{Endpoint: endpoint, Field: "success", Reason: "is not a boolean"}
	}
	if !success.Bool() {
		msg := root.Get("error").String()
		if msg == "" {
			msg = "request failed"
		}
		return gjson.Result{}, &APIError{Endpoint: endpoint, Status: status, Message: msg}
	}

	data := root.Get("data")
	if !data.Exists() {
		return gjson.Result{}, &DataShapeError{Endpoint: endpoint, Field: "data", Reason: "is missing"}
	}
	return data, nil
}

// get issues the HTTP request and returns the status and raw body.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (int, []byte, error) {
	target := c.baseURL + apiPrefix + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}

	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("api request failed", "endpoint", endpoint, "request_id", requestID, "error", err)
		return 0, nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &ConnectionError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	logger.Debug("api request",
		"endpoint", endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp.StatusCode, body, nil
}

func decode(endpoint string, data gjson.Result, out any) error {
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return &DataShapeError{Endpoint: endpoint, Field: "data", Reason: err.Error()}
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func httpErrorMessage(status int) string {
	return fmt.Sprintf("HTTP Error: %d", status)
}
