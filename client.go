// Package finbook is the client-side data layer of the FinBook personal
// finance tracker: a per-user TTL response cache combined with in-flight
// request deduplication and a micro-batching scheduler, sitting between UI
// code and the finance REST API.
//
// Construct exactly one [Client] at startup and inject it into whatever owns
// the UI and network wiring. The explicit instance replaces the hidden global
// caches a naive implementation would reach for, while keeping
// single-instance semantics:
//
//	transport, _ := httpapi.NewClient("https://api.finbook.example")
//	client := finbook.NewClient(transport, finbook.DefaultOptions()...)
//	svc := finance.NewService(client)
package finbook

import (
	"context"
	"net/http"
	"regexp"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finbook/finbook-go/batch"
	"github.com/finbook/finbook-go/cachekey"
	"github.com/finbook/finbook-go/dedup"
	"github.com/finbook/finbook-go/httpapi"
	"github.com/finbook/finbook-go/metrics"
	"github.com/finbook/finbook-go/session"
	"github.com/finbook/finbook-go/store"
	"github.com/finbook/finbook-go/userscope"
)

// Client coordinates the user-scoped cache, the in-flight deduplicator and
// the batching scheduler over a [httpapi.Transport]. All methods are safe for
// concurrent use.
type Client struct {
	transport httpapi.Transport
	cache     *userscope.Cache
	dedup     *dedup.Group
	batch     *batch.Scheduler
	session   *session.Store
	log       *zap.Logger
}

// NewClient wires the caching and coordination layers over transport.
func NewClient(transport httpapi.Transport, opts ...Option) *Client {
	cfg := config{
		ttl:    store.DefaultTTL,
		window: batch.DefaultWindow,
		log:    zap.NewNop(),
		rec:    metrics.Noop{},
	}
	for _, o := range opts {
		o(&cfg)
	}

	st := store.New(store.WithTTL(cfg.ttl), store.WithRecorder(cfg.rec))
	return &Client{
		transport: transport,
		cache:     userscope.New(st, cfg.log),
		dedup:     dedup.New(cfg.rec),
		batch:     batch.New(batch.WithWindow(cfg.window), batch.WithRecorder(cfg.rec)),
		session:   session.New(),
		log:       cfg.log,
	}
}

// CachedRequest performs a deduplicated, cached call against the API.
//
// The request first enters the deduplicator: an identical request already in
// flight is joined rather than repeated. The winning call consults the
// user-scoped cache (a hit short-circuits the network entirely) and writes
// the response back on success. The cache key is derived from
// (method, path, params) by the shared codec, so requests that differ only in
// parameter enumeration order or method case still collide as intended.
func (c *Client) CachedRequest(ctx context.Context, method, path string, params map[string]any, opts ...RequestOption) ([]byte, error) {
	var ro requestOptions
	for _, o := range opts {
		o(&ro)
	}

	key := cachekey.Build(method, path, params)
	return c.dedup.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		if !ro.skipCache && !ro.forceRefresh {
			if v, ok := c.cache.Get(key); ok {
				return v, nil
			}
		}
		body, err := c.call(ctx, method, path, params)
		if err != nil {
			return nil, err
		}
		if !ro.skipCache {
			c.cache.Set(key, body)
		}
		return body, nil
	})
}

// Request performs an uncached, undeduplicated call. Mutations go through
// here so two concurrent creates are never collapsed into one and their
// responses never pollute the read cache.
func (c *Client) Request(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	return c.call(ctx, method, path, params)
}

// BatchRequest coalesces calls made under the same batchKey within the
// batching window into a single fn invocation; every caller receives the one
// result or the one error. Unlike the deduplicator, which only joins requests
// already in flight, the scheduler deliberately holds the first call open so
// temporally close siblings can merge before anything is dispatched.
func (c *Client) BatchRequest(ctx context.Context, batchKey string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	return c.batch.Do(ctx, batchKey, fn)
}

// call hits the transport and applies the auth-failure safety rule: a
// 401/403-class response clears the entire cache before the error
// propagates, so an expired session cannot keep serving cached data.
func (c *Client) call(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	body, err := c.transport.Do(ctx, method, path, params)
	if err != nil {
		if httpapi.IsAuthError(err) {
			c.log.Warn("auth failure, clearing cache",
				zap.String("method", method),
				zap.String("path", path))
			c.cache.Clear()
		}
		return nil, err
	}
	return body, nil
}

// SetUserSession records id as the signed-in user and switches the cache
// namespace. Switching to a different user evicts everything cached for the
// previous one.
func (c *Client) SetUserSession(id string) {
	c.session.Set(id)
	c.cache.SetUserID(id)
}

// ClearSession signs the user out: their cached entries are evicted and the
// namespace marker reset.
func (c *Client) ClearSession() {
	c.session.Clear()
	c.cache.ClearCurrentUser()
}

// CurrentUser returns the signed-in user id, if any.
func (c *Client) CurrentUser() (string, bool) {
	return c.session.Current()
}

// Cache exposes the user-scoped cache for direct reads, writes and targeted
// invalidation.
func (c *Client) Cache() *userscope.Cache {
	return c.cache
}

// InvalidatePattern removes every cached entry whose key matches re and
// returns the number removed. Mutations use it to drop whole families of
// cached reads at once.
func (c *Client) InvalidatePattern(re *regexp.Regexp) int {
	return c.cache.DeleteByPattern(re)
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func (c *Client) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
