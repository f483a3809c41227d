// Package apiclient talks to the remote bookkeeping API. Every call is a single attempt; the
// API owns all persisted state.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// Resource names used in logs and metrics.
const (
	ResourceCustomers    = "customers"
	ResourceSales        = "sales"
	ResourcePayments     = "payments"
	ResourceTransactions = "transactions"
	ResourceBalances     = "balances"
	ResourceLogs         = "logs"
	ResourceBackups      = "backups"
)

// Client is a resty-backed client for the bookkeeping API.
type Client struct {
	http    *resty.Client
	logger  *zap.Logger
	metrics *Metrics
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records request counts and latencies on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRateLimit caps outgoing requests at rps per second with the given burst. A non-positive
// rps leaves requests unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// New creates a client for the API rooted at baseURL. A zero timeout means no timeout.
func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	c := &Client{http: hc, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call executes one request. out receives the decoded success body when non-nil.
func (c *Client) call(ctx context.Context, resource, method, path string, build func(*resty.Request), out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.observe(resource, method, "throttled", 0)
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	var errBody errorBody
	req := c.http.R().SetContext(ctx).SetError(&errBody)
	if build != nil {
		build(req)
	}
	if out != nil {
		req.SetResult(out)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil {
		if resp != nil && resp.StatusCode() > 0 {
			c.metrics.observe(resource, method, "malformed", elapsed)
			c.logger.Warn("unreadable API response",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode()),
				zap.Error(err),
			)
			return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
		}
		c.metrics.observe(resource, method, "transport", elapsed)
		c.logger.Error("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		c.metrics.observe(resource, method, "http_error", elapsed)
		apiErr := newAPIError(resp.StatusCode(), &errBody)
		c.logger.Warn("API returned error status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	c.metrics.observe(resource, method, "success", elapsed)
	c.logger.Debug("API request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func list[T any](ctx context.Context, c *Client, resource, path string, limit, offset int) (Page[T], error) {
	var raw json.RawMessage
	err := c.call(ctx, resource, http.MethodGet, path, func(r *resty.Request) {
		// decode whatever Content-Type the API claims, so a non-JSON body fails loudly
		r.SetForceResponseContentType("application/json")
		if limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(limit))
			r.SetQueryParam("offset", strconv.Itoa(offset))
		}
	}, &raw)
	if err != nil {
		return Page[T]{Items: []T{}}, err
	}

	page, err := decodeList[T](raw)
	if err != nil {
		c.logger.Warn("unexpected list body", zap.String("resource", resource), zap.Error(err))
		return page, fmt.Errorf("GET %s: %w", path, err)
	}
	return page, nil
}

func withID(id string) func(*resty.Request) {
	return func(r *resty.Request) { r.SetPathParam("id", id) }
}

func withBody(body any) func(*resty.Request) {
	return func(r *resty.Request) { r.SetBody(body) }
}

func withIDAndBody(id string, body any) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetPathParam("id", id)
		r.SetBody(body)
	}
}

type statusMessage struct {
	Message string `json:"message"`
}
