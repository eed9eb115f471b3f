// Package api talks to the remote task service. Unlike the document backends,
// the service owns the collection and exposes one endpoint per change.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/tasks/pkg/core"
)

// HeaderRequestID carries a per-request id for server-side correlation.
const HeaderRequestID = "X-Request-Id"

// Config holds the service location and credentials.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements core.EntityBackend over HTTP.
type Client struct {
	base   string
	key    string
	http   *http.Client
	logger *slog.Logger

	mu         sync.RWMutex
	requests   int
	lastStatus int
	lastID     string
}

// NewClient creates a client for the service at config.BaseURL.
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		base:   strings.TrimRight(config.BaseURL, "/"),
		key:    config.APIKey,
		http:   httpClient,
		logger: logger,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method    string
	Path      string
	Code      int
	Message   string
	RequestID string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is makes a 404 match core.ErrEntityNotFound.
func (e *StatusError) Is(target error) bool {
	return target == core.ErrEntityNotFound && e.Code == http.StatusNotFound
}

// do sends one request. body and out are JSON encoded/decoded when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", core.ErrConnection, method, path, err)
	}
	defer resp.Body.Close()

	c.record(resp.StatusCode, requestID)
	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Method:    method,
			Path:      path,
			Code:      resp.StatusCode,
			Message:   readMessage(resp.Body),
			RequestID: requestID,
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", core.ErrConnection, statusErr)
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// readMessage extracts {"message": "..."} error bodies, falling back to the raw text.
func readMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func (c *Client) record(status int, requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.lastStatus = status
	c.lastID = requestID
}
