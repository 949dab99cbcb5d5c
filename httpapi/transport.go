// Package httpapi implements the network boundary of the finbook client: a
// thin JSON transport over net/http with optional client-side gates (rate
// limiting, circuit breaking, retries) and OpenTelemetry tracing. The
// caching and coordination layers sit on top of the [Transport] interface and
// never touch HTTP themselves.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finbook/finbook-go/breaker"
	"github.com/finbook/finbook-go/contextx"
	"github.com/finbook/finbook-go/ratelimit"
	"github.com/finbook/finbook-go/retry"
	"github.com/finbook/finbook-go/tracing"
)

// Transport is the asynchronous network boundary consumed by the caching
// layer: one logical call in, one response body or error out.
type Transport interface {
	Do(ctx context.Context, method, path string, params map[string]any) ([]byte, error)
}

// Client is the production Transport over net/http.
type Client struct {
	base    *url.URL
	hc      *http.Client
	limiter *ratelimit.Limiter
	brk     *breaker.Breaker
	retry   *retry.Config
	trace   *tracing.Config
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client, and with it the
// round-trip timeout policy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithRateLimit gates outgoing calls at rps calls per second with the given
// burst size.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = ratelimit.NewLimiter(rps, burst) }
}

// WithBreaker wraps calls in a circuit breaker so a dead API fails fast with
// [breaker.ErrOpen] instead of timing out request after request.
func WithBreaker(cfg breaker.Config) Option {
	return func(c *Client) { c.brk = breaker.New(cfg) }
}

// WithRetry retries calls whose status is listed in cfg.RetryStatuses. The
// layers above the transport never retry on their own.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = &cfg }
}

// WithTracing enables OpenTelemetry client spans and trace-context header
// propagation.
func WithTracing(tc *tracing.Config) Option {
	return func(c *Client) { c.trace = tc }
}

// WithLogger installs a structured logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpapi: parse base url: %w", err)
	}
	c := &Client{
		base: u,
		hc:   &http.Client{Timeout: 30 * time.Second},
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Do performs one logical API call. GET and DELETE params are encoded into
// the query string; other verbs send params as a JSON body.
func (c *Client) Do(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	if c.retry != nil {
		return retry.Do(ctx, *c.retry, func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, method, path, params)
		})
	}
	return c.do(ctx, method, path, params)
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.brk != nil && !c.brk.Allow() {
		return nil, breaker.ErrOpen
	}

	body, err := c.roundTrip(ctx, method, path, params)
	if c.brk != nil {
		if err != nil {
			c.brk.OnFailure()
		} else {
			c.brk.OnSuccess()
		}
	}
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	method = strings.ToUpper(method)

	u := c.base.JoinPath(path)
	var body io.Reader
	if len(params) > 0 {
		if method == http.MethodGet || method == http.MethodDelete {
			q := u.Query()
			for k, v := range params {
				q.Set(k, fmt.Sprint(v))
			}
			u.RawQuery = q.Encode()
		} else {
			raw, err := json.Marshal(params)
			if err != nil {
				return nil, fmt.Errorf("httpapi: encode params: %w", err)
			}
			body = bytes.NewReader(raw)
		}
	}

	ctx, finish := c.trace.Start(ctx, method, path)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		finish(0, err)
		return nil, fmt.Errorf("httpapi: build request: %w", err)
	}

	reqID := contextx.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.trace.Inject(ctx, req.Header)

	resp, err := c.hc.Do(req)
	if err != nil {
		finish(0, err)
		return nil, fmt.Errorf("httpapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		finish(resp.StatusCode, err)
		return nil, fmt.Errorf("httpapi: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			RequestID:  reqID,
			Message:    strings.TrimSpace(string(raw)),
		}
		finish(resp.StatusCode, apiErr)
		c.log.Warn("finance api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", reqID))
		return nil, apiErr
	}

	finish(resp.StatusCode, nil)
	return raw, nil
}

// Ping checks API reachability through the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, "/health", nil)
	return err
}
