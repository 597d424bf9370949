package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vetgate/vetgate/internal/cache"
)

// Config configures the Client. Zero values fall back to defaults.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration // per-attempt timeout
	MaxAttempts int
	RetryDelay  time.Duration // base delay; grows linearly with attempt number
}

const (
	defaultTimeout    = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Client issues calls to the clinic API with a per-attempt timeout,
// bounded retries, and error classification. Known-failed endpoints are
// suppressed through the negative cache for a short grace period.
//
// The client never caches positively: cache lifetime and invalidation
// triggers are operation-specific, so positive caching is each tool
// executor's decision.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	negatives   *cache.Store
}

// New creates a Client. The negatives store may be shared with other
// components; keys are scoped per endpoint.
func New(cfg Config, negatives *cache.Store) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		negatives:   negatives,
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, path, body)
}

// Request issues a call to the clinic API and returns the raw response
// body. Failures come back classified: *SuppressedError for negative-
// cache fast fails, *APIError for non-2xx responses, ErrTimeout for
// per-attempt deadline hits, *TransportError for network failures.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	// Fast-fail path: a recent failure on this endpoint is still inside
	// its suppression window.
	negKey := cache.NegativeKey(method, path, payload)
	if hit, ok := c.negatives.Get(negKey); ok && hit.Negative {
		return nil, &SuppressedError{Message: hit.Err}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		data, err := c.attempt(ctx, method, path, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !retryable(err) {
			// Client errors cannot be fixed by retrying; shed repeat
			// load through the negative cache and surface immediately.
			c.negatives.SetNegative(negKey, err.Error())
			return nil, err
		}

		if attempt >= c.maxAttempts {
			break
		}

		// Delay scales with the attempt number.
		delay := c.retryDelay * time.Duration(attempt)
		slog.Warn("upstream call failed, retrying",
			"method", method, "path", path,
			"attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	c.negatives.SetNegative(negKey, lastErr.Error())
	return nil, lastErr
}

// attempt performs a single bounded call.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.httpClient.Timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
			Method:     method,
			Path:       path,
		}
	}

	if len(data) == 0 {
		data = []byte("null")
	}
	return data, nil
}

// Ping checks upstream reachability for readiness probes. It bypasses
// the negative cache so a probe never reports a stale failure.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.attempt(ctx, http.MethodGet, "/health", nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// Upstream without a health route is still reachable.
		return nil
	}
	return err
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(body []byte, status int) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return http.StatusText(status)
}
