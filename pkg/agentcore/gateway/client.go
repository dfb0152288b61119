// Package gateway implements the bounded HTTP client every agent uses to
// reach the persistence gateway — the agent's sole outward-facing I/O.
// Grounded on the teacher's runbook.GitHubClient (bearer-token HTTP client
// shape) and pkg/queue.WorkerPool (bounded-resource, single-lock discipline),
// generalized into a FIFO-fair connection pool with retry and backoff.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// RuvectorError is returned for any non-2xx response from the gateway.
type RuvectorError struct {
	StatusCode int
	Message    string
}

func (e *RuvectorError) Error() string {
	return fmt.Sprintf("ruvector gateway error: status=%d message=%s", e.StatusCode, e.Message)
}

// Retryable reports whether this failure should be retried: anything outside
// [400,500). Network errors and timeouts never become a RuvectorError; they
// surface as plain errors from the HTTP client and are always retried.
func (e *RuvectorError) Retryable() bool {
	return e.StatusCode < 400 || e.StatusCode >= 500
}

// Config holds the client's tunables. New fills zero-valued PoolSize,
// Timeout, HealthTimeout, RetryAttempts, RetryDelay and MaxRetryDelay with
// their defaults; ServiceURL, APIKey and UserAgent have no default.
type Config struct {
	ServiceURL    string
	APIKey        string
	UserAgent     string
	PoolSize      int
	Timeout       time.Duration
	HealthTimeout time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

const (
	DefaultPoolSize      = 5
	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 1 * time.Second
	DefaultMaxRetryDelay = 10 * time.Second
)

func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = DefaultHealthTimeout
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = DefaultMaxRetryDelay
	}
	return c
}

// Client is the sole outward-facing HTTP peer for an agent process. It owns
// a fixed-size FIFO-fair connection pool: Acquire blocks on a buffered
// channel (Go's runtime serves channel waiters in FIFO order), and Release
// hands the slot to the next waiter. One Client is shared by every request
// in the process.
type Client struct {
	cfg  Config
	http *http.Client
	pool chan struct{}
}

// New constructs a Client. ServiceURL and APIKey are required; all other
// fields default per the spec's stated constants.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	pool := make(chan struct{}, cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		pool <- struct{}{}
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		pool: pool,
	}
}

// acquire waits for a free pool slot, suspending on the FIFO wait queue
// implied by the channel, or returns ctx.Err() if the caller's deadline
// elapses first.
func (c *Client) acquire(ctx context.Context) error {
	select {
	case <-c.pool:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	c.pool <- struct{}{}
}

// backoffDelay computes the exponential backoff for a given retry attempt
// (1-indexed): retryDelay * 2^(attempt-1), capped at maxRetryDelay.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.cfg.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.cfg.MaxRetryDelay {
			return c.cfg.MaxRetryDelay
		}
	}
	if delay > c.cfg.MaxRetryDelay {
		delay = c.cfg.MaxRetryDelay
	}
	return delay
}

// do executes an HTTP request with pool acquisition, retry, and backoff. The
// caller's ctx governs the entire operation including pool wait and all
// retry sleeps; method/path/body are rebuilt per attempt since http.Request
// bodies aren't safely reusable.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquire connection slot: %w", err)
	}
	defer c.release()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoffDelay(attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		respBody, status, err := c.attempt(ctx, method, path, payload)
		if err == nil {
			return respBody, nil
		}

		var rerr *RuvectorError
		if status > 0 {
			rerr = &RuvectorError{StatusCode: status, Message: err.Error()}
			if !rerr.Retryable() {
				return nil, rerr
			}
			lastErr = rerr
			continue
		}

		// Network-level failure (dial, timeout, context): always retryable
		// within the attempt budget.
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	fullURL := c.cfg.ServiceURL + path
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("%s", string(respBody))
	}
	return respBody, resp.StatusCode, nil
}

// PersistDecision writes a single DecisionEvent. On terminal failure it
// returns a *RuvectorError (or a network error) that the pipeline maps to
// PersistenceError / 502.
func (c *Client) PersistDecision(ctx context.Context, event *domain.DecisionEvent) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/decision-events", event)
	return err
}

// PersistDecisions writes a batch of DecisionEvents in one outbound call,
// preserving input order.
func (c *Client) PersistDecisions(ctx context.Context, events []*domain.DecisionEvent) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/decision-events/batch", map[string]any{"events": events})
	return err
}

// DecisionEventList is the gateway's paginated listing response.
type DecisionEventList struct {
	Items      []domain.DecisionEvent `json:"items"`
	TotalCount int                    `json:"total_count"`
}

// GetDecisions lists persisted DecisionEvents matching q.
func (c *Client) GetDecisions(ctx context.Context, q domain.DecisionQuery) (*DecisionEventList, error) {
	path := "/api/v1/decision-events?" + q.Encode()
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out DecisionEventList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode decision list: %w", err)
	}
	return &out, nil
}

// GetDecisionByRef fetches a single DecisionEvent by its execution_ref.
func (c *Client) GetDecisionByRef(ctx context.Context, executionRef string) (*domain.DecisionEvent, error) {
	path := "/api/v1/decision-events/" + url.PathEscape(executionRef)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out domain.DecisionEvent
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode decision event: %w", err)
	}
	return &out, nil
}

// AggregateResult is the gateway's grouped-aggregate response.
type AggregateResult struct {
	Groups []map[string]any `json:"groups"`
}

// Aggregate runs a server-side aggregation over persisted DecisionEvents.
func (c *Client) Aggregate(ctx context.Context, q domain.AggregateQuery) (*AggregateResult, error) {
	path := "/api/v1/decision-events/aggregate?" + q.Encode()
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out AggregateResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode aggregate result: %w", err)
	}
	return &out, nil
}

// Health checks gateway reachability with a short, dedicated timeout. It
// bypasses the retry policy: a single failed probe is the answer.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	if err := c.acquire(ctx); err != nil {
		return fmt.Errorf("acquire connection slot: %w", err)
	}
	defer c.release()

	_, status, err := c.attempt(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		if status > 0 {
			return &RuvectorError{StatusCode: status, Message: err.Error()}
		}
		return err
	}
	return nil
}
