// Package batch implements a micro-batching scheduler. Calls made under the
// same batch key within a short window coalesce into a single underlying
// call whose one result, or one error, is fanned out to every caller.
//
// This is distinct from in-flight deduplication: the deduplicator only joins
// requests that are already running, while the scheduler deliberately holds
// the first call open so temporally close siblings can merge before anything
// is dispatched.
package batch

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/finbook/finbook-go/metrics"
)

// DefaultWindow is how long the first caller for a key is held open waiting
// for siblings to join the batch.
const DefaultWindow = 50 * time.Millisecond

type result struct {
	val []byte
	err error
}

// flight is one open batch: the waiters registered so far plus the function
// that will serve them. Every key owns an independent flight with its own
// timer, so registrations on one key can never delay or reset another key's
// flush.
type flight struct {
	ctx     context.Context
	fn      func(context.Context) ([]byte, error)
	waiters []chan result
}

// Scheduler coalesces temporally close calls per batch key. All methods are
// safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*flight
	rec     metrics.Recorder
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWindow overrides the default batching window.
func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) { s.window = d }
}

// WithRecorder installs a metrics recorder. The default discards all events.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Scheduler) { s.rec = rec }
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		window:  DefaultWindow,
		pending: make(map[string]*flight),
		rec:     metrics.Noop{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Do registers the caller under key. The first registration for a key since
// the last flush arms that key's timer; when it fires, fn runs exactly once
// and its single outcome is delivered to every caller that registered before
// the flush, in registration order. The fn used is the one supplied by the
// first registrant, running with that registrant's context values but
// detached from its cancellation so that one caller giving up cannot fail
// the whole batch. A caller whose ctx ends before the flush stops waiting
// and returns ctx.Err(); the batch itself still completes.
func (s *Scheduler) Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	// Buffered so the flush never blocks on a caller that stopped waiting.
	w := make(chan result, 1)

	s.mu.Lock()
	f, ok := s.pending[key]
	if !ok {
		f = &flight{ctx: context.WithoutCancel(ctx), fn: fn}
		s.pending[key] = f
		time.AfterFunc(s.window, func() { s.flush(key) })
	}
	f.waiters = append(f.waiters, w)
	s.mu.Unlock()

	select {
	case r := <-w:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flush closes the batch for key and delivers the outcome of one fn call to
// all of its waiters. Later calls for the same key open a new batch.
func (s *Scheduler) flush(key string) {
	s.mu.Lock()
	f := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()
	if f == nil {
		return
	}

	val, err := f.fn(f.ctx)
	s.rec.BatchFlush(len(f.waiters))
	for _, w := range f.waiters {
		w <- result{val: bytes.Clone(val), err: err}
	}
}
