// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// client.go - HTTP client for the astroscope analysis service.
//
// One outbound contract: POST {base}/api/analyze-topic with {topic,
// max_papers}, plus the GET /health probe. Requests are single-attempt;
// a failed analysis is reported to the user, never retried silently.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the fallback service host when neither config nor
	// environment supplies one.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultMaxPapers matches the service-side default.
	DefaultMaxPapers = 3

	// MaxResponseSize caps response bodies at 10MB to bound memory on a
	// misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024

	analyzePath = "/api/analyze-topic"
	healthPath  = "/health"

	userAgent = "astroscope-tui/1.0"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyTopic indicates a blank topic reached the client. Callers
	// normally reject these earlier.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrInvalidRequest indicates the service rejected the request (4xx).
	ErrInvalidRequest = errors.New("analysis request rejected")

	// ErrRateLimited indicates the service returned 429.
	ErrRateLimited = errors.New("analysis service rate limited")

	// ErrServerFailure indicates a 5xx response from the service.
	ErrServerFailure = errors.New("analysis service failed")

	// ErrMalformedResponse indicates a success status with an undecodable
	// body.
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// ServiceError carries the HTTP status and any detail the service returned.
// It wraps one of the sentinel errors above so callers can branch with
// errors.Is while still having the status for diagnostics.
type ServiceError struct {
	StatusCode int
	Detail     string
	sentinel   error
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("service returned %d", e.StatusCode)
}

func (e *ServiceError) Unwrap() error {
	return e.sentinel
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// sharedHTTPClient is reused across all Client instances so connections to
// the service are pooled. No overall timeout is set here; deadlines come
// from the caller's context or an explicit WithTimeout.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Client talks to the analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to DefaultBaseURL. Trailing slashes are trimmed so path joining stays
// predictable.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets an overall per-request timeout. Zero keeps the transport
// defaults.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		// Copy so the shared pooled client keeps its zero timeout.
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
	return c
}

// WithRateLimit spaces analyze calls at most once per interval. Zero
// disables limiting.
func (c *Client) WithRateLimit(interval time.Duration) *Client {
	if interval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return c
}

// BaseURL returns the configured service host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// AnalyzeTopic submits a topic and returns the parsed report. Exactly one
// request is issued per call.
func (c *Client) AnalyzeTopic(ctx context.Context, topic string, maxPapers int) (*Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if maxPapers <= 0 {
		maxPapers = DefaultMaxPapers
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(AnalyzeRequest{Topic: topic, MaxPapers: maxPapers})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newServiceError(resp.StatusCode, data)
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &rep, nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return status, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return status, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp.Body)
	if err != nil {
		return status, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return status, newServiceError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return status, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return status, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readBody reads a response body capped at MaxResponseSize.
func readBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// newServiceError maps an HTTP status to a sentinel-wrapping ServiceError.
func newServiceError(status int, body []byte) error {
	detail := extractDetail(body)

	var sentinel error
	switch {
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status >= 500:
		sentinel = ErrServerFailure
	default:
		sentinel = ErrInvalidRequest
	}

	return &ServiceError{StatusCode: status, Detail: detail, sentinel: sentinel}
}

// extractDetail pulls the "detail" field FastAPI-style services put in error
// bodies. Falls back to a trimmed body snippet.
func extractDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
