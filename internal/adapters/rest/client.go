// Package rest is the HTTP transport to the portal backend.
//
// The backend is an external collaborator; this package only speaks its wire
// shapes (auth, analytics ingestion) and reports transport-level failures as
// wrapped sentinel errors so callers can degrade gracefully.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/rozgarlabs/portalkit/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second
)

// Client talks to the portal REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a backend client for baseURL with configuration options.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Get().Named("rest"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is the raw outcome of a backend call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Do performs a JSON request against the backend. A non-empty bearer token is
// attached as an Authorization header. Transport failures are wrapped in
// ErrNetwork; HTTP error statuses are returned to the caller undisturbed.
func (c *Client) Do(ctx context.Context, method, path string, body any, bearer string) (*Response, error) {
	start := time.Now()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordHTTPRequest(path, "network_error", float64(time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordHTTPRequest(path, "read_error", float64(time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	metrics.RecordHTTPRequest(path, strconv.Itoa(resp.StatusCode), float64(time.Since(start).Milliseconds()))
	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// ErrorMessage extracts a human-readable message from an error response
// body. The backend answers either {"success":false,"message":...} or the
// framework default {"detail":...}.
func ErrorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Detail
}
