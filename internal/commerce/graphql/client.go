// Package graphql implements the resilient request client for the remote
// commerce API: a TTL response cache, bounded exponential-backoff retries
// for throttled calls, and normalized error surfacing. Callers always get a
// structured {data, errors} outcome; the client never panics and never
// returns a bare transport error.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-gateway/internal/common/config"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/common/metrics"
)

const (
	defaultMaxRetries = 3
	accessTokenHeader = "X-Storefront-Access-Token"
)

// ResponseError is one remote-reported or normalized error descriptor. The
// message is safe for direct user display. Kind is set by the client for
// failures it classifies itself (config, transient); remote-reported errors
// carry no kind.
type ResponseError struct {
	Message string         `json:"message"`
	Kind    apperrors.Kind `json:"-"`
}

// Response is the outcome of one logical call. Exactly one of Data and
// Errors is meaningful.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// Failed reports whether the call produced no usable data.
func (r *Response) Failed() bool {
	return len(r.Errors) > 0 || len(r.Data) == 0
}

// Err converts a failed outcome into a taxonomy error, preserving the kind
// the client assigned. Remote-reported errors and everything else the facade
// has no better classification for surface as transient.
func (r *Response) Err() error {
	if len(r.Errors) == 0 {
		if len(r.Data) == 0 {
			return apperrors.NewTransientError("empty response", nil)
		}
		return nil
	}

	first := r.Errors[0]
	if first.Kind == apperrors.KindConfig {
		return apperrors.NewConfigError(first.Message)
	}
	return apperrors.NewTransientError(first.Message, nil)
}

// Options control one request.
type Options struct {
	Variables map[string]interface{}

	// CacheTTL of zero disables both storing and reuse. Mutations must
	// always pass zero.
	CacheTTL time.Duration

	// MaxRetries overrides the additional-attempt budget for this call;
	// zero means the client's configured budget.
	MaxRetries int
}

// Client issues GraphQL operations against the configured store endpoint.
type Client struct {
	endpoint   string
	token      string
	maxRetries int
	httpClient *http.Client
	cache      *Cache
	sleep      func(ctx context.Context, d time.Duration) error
	logger     logger.Logger
	mocked     bool
}

// Option customizes a Client; used by tests to point at stub servers and to
// make backoff and cache expiry deterministic.
type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.cache = newCacheWithClock(now) }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New builds a client for the configured store. Missing credentials do not
// fail construction: the client degrades to a mocked one whose every call
// returns a config-kind failed outcome, so the facade can still serve
// fallback data.
func New(cfg config.StoreConfig, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint(),
		token:      cfg.AccessToken,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: config.GetDuration(cfg.RequestTimeout)},
		cache:      NewCache(),
		sleep:      sleepContext,
		logger:     log.WithFields(map[string]interface{}{"component": "graphql-client"}),
	}

	if !cfg.IsConfigured() {
		c.mocked = true
		c.logger.Warn("store domain or access token missing, running with a mocked commerce client", nil)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request resolves one GraphQL operation: cache hit, or network call with
// retries. Transport failures and retry exhaustion are folded into the
// returned Response; the only way to observe them is a non-empty Errors.
func (c *Client) Request(ctx context.Context, query string, opts Options) *Response {
	op := operationName(query)

	if c.mocked {
		metrics.CommerceRequestsTotal.WithLabelValues(op, "config_error").Inc()
		return &Response{Errors: []ResponseError{{
			Message: apperrors.NewConfigError("commerce client is mocked").Message,
			Kind:    apperrors.KindConfig,
		}}}
	}

	// Per-call budget wins over the configured one, which wins over the
	// built-in default.
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = c.maxRetries
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	key, cacheable := fingerprint(query, opts.Variables)

	if cacheable {
		if data, ok := c.cache.get(key, opts.CacheTTL); ok {
			metrics.CommerceCacheHits.WithLabelValues(op).Inc()
			c.logger.Debug("cache hit", map[string]interface{}{"operation": op})
			return &Response{Data: data}
		}
	}

	start := time.Now()
	defer func() {
		metrics.CommerceRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	attempt := 0
	for {
		resp, err := c.do(ctx, query, opts.Variables)
		if err == nil {
			if cacheable && len(resp.Errors) == 0 && len(resp.Data) > 0 && opts.CacheTTL > 0 {
				c.cache.put(key, resp.Data)
			}
			status := "ok"
			if len(resp.Errors) > 0 {
				// Remote-reported errors are assumed non-transient and are
				// never retried.
				status = "remote_error"
			}
			metrics.CommerceRequestsTotal.WithLabelValues(op, status).Inc()
			return resp
		}

		attempt++
		raw := err.Error()

		if apperrors.IsThrottled(raw) {
			if attempt > maxRetries {
				return c.fail(op, raw)
			}
			delay := time.Duration(1<<uint(attempt)) * time.Second
			metrics.CommerceRetriesTotal.WithLabelValues(op, "throttled").Inc()
			c.logger.Warn("throttled, backing off", map[string]interface{}{
				"operation": op,
				"attempt":   attempt,
				"delay":     delay.String(),
			})
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				return c.fail(op, "request cancelled")
			}
			continue
		}

		if attempt > maxRetries {
			return c.fail(op, raw)
		}
		metrics.CommerceRetriesTotal.WithLabelValues(op, "error").Inc()
		c.logger.Warn("request failed, retrying", map[string]interface{}{
			"operation": op,
			"attempt":   attempt,
			"error":     raw,
		})
	}
}

// CacheSize returns the number of stored responses.
func (c *Client) CacheSize() int {
	return c.cache.len()
}

// Mocked reports whether the client was built without store credentials.
func (c *Client) Mocked() bool {
	return c.mocked
}

func (c *Client) fail(op, raw string) *Response {
	metrics.CommerceRequestsTotal.WithLabelValues(op, "failed").Inc()
	c.logger.Error("request failed after retries", map[string]interface{}{
		"operation": op,
		"error":     raw,
	})
	return &Response{Errors: []ResponseError{{
		Message: apperrors.Friendly(raw),
		Kind:    apperrors.KindTransient,
	}}}
}

// do performs a single network attempt.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}) (*Response, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("Throttled: status 429")
	}
	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("status %d %s: %s",
			httpResp.StatusCode, http.StatusText(httpResp.StatusCode), strings.TrimSpace(string(body)))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// operationName extracts the operation name for logs and metric labels,
// e.g. "query GetProducts($q: String)" -> "GetProducts". Operations may be
// preceded by fragment definitions.
func operationName(query string) string {
	for _, line := range strings.Split(query, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range []string{"query", "mutation"} {
			rest, ok := strings.CutPrefix(trimmed, prefix)
			if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '(' && rest[0] != '{') {
				continue
			}
			rest = strings.TrimSpace(rest)
			end := strings.IndexAny(rest, " ({")
			if end == -1 {
				end = len(rest)
			}
			if name := strings.TrimSpace(rest[:end]); name != "" {
				return name
			}
			return prefix
		}
	}
	return "anonymous"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
