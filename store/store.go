// Package store implements the in-memory TTL response cache backing the
// finbook client. Expiration is lazy: staleness is checked at read time and
// the stale entry removed as a side effect. There is no background sweeper;
// for a client-side cache bounded by single-session data volumes the memory
// held by expired-but-unread entries is an accepted trade-off.
package store

import (
	"bytes"
	"regexp"
	"sync"
	"time"

	"github.com/finbook/finbook-go/metrics"
)

// DefaultTTL is the time-to-live applied to entries unless overridden with
// WithTTL.
const DefaultTTL = 5 * time.Minute

type entry struct {
	val       []byte
	writtenAt time.Time
}

// Store is a key/value store with lazy TTL expiration and pattern-based bulk
// invalidation. All methods are safe for concurrent use; every mutation is a
// single critical section, so no interleaving can produce a torn read or
// write.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl     time.Duration
	nowFunc func() time.Time // for testing; defaults to time.Now
	rec     metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the default entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source used for write timestamps and expiry
// checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFunc = now }
}

// WithRecorder installs a metrics recorder. The default discards all events.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Store) { s.rec = rec }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		nowFunc: time.Now,
		rec:     metrics.Noop{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set stores val under key, stamped with the store's clock. Any prior entry
// for key is overwritten. The value is copied on the way in.
func (s *Store) Set(key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{val: bytes.Clone(val), writtenAt: s.nowFunc()}
}

// Get returns the value stored under key; the boolean reports a hit. An entry
// older than the TTL counts as a miss and is removed as a side effect. The
// returned slice is a private copy, so callers can never corrupt the cache
// through it.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.rec.CacheMiss()
		return nil, false
	}
	if s.nowFunc().Sub(e.writtenAt) > s.ttl {
		delete(s.entries, key)
		s.rec.CacheExpired()
		s.rec.CacheMiss()
		return nil, false
	}
	s.rec.CacheHit()
	return bytes.Clone(e.val), true
}

// Delete removes the entry for key; it is a no-op when no entry exists.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// DeleteByPattern removes every entry whose key matches re and returns the
// number of entries removed. Mutations use it to drop whole families of
// cached reads in one call.
func (s *Store) DeleteByPattern(re *regexp.Regexp) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.entries {
		if re.MatchString(k) {
			delete(s.entries, k)
			n++
		}
	}
	if n > 0 {
		s.rec.CacheInvalidated(n)
	}
	return n
}

// Clear removes all entries unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Keys returns the keys currently held. Entries past their TTL that have not
// been read since expiring are still listed; they disappear once read,
// invalidated or cleared.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries currently held, counting not-yet-read
// expired entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
