// Package metrics defines the instrumentation hooks emitted by the caching
// and request-coordination layers.
package metrics

// Recorder receives cache and coordination events. Implementations must be
// safe for concurrent use.
type Recorder interface {
	// CacheHit is called when a read is served from memory.
	CacheHit()

	// CacheMiss is called when a read finds no fresh entry.
	CacheMiss()

	// CacheExpired is called when a read removes an entry past its TTL.
	CacheExpired()

	// CacheInvalidated is called after a bulk invalidation with the number
	// of entries removed.
	CacheInvalidated(n int)

	// DedupShared is called when a caller joined an identical request
	// already in flight instead of issuing its own.
	DedupShared()

	// BatchFlush is called when a batch flushes, with the number of waiters
	// that coalesced into the single call.
	BatchFlush(waiters int)
}

// Noop discards all events. It is the default recorder so components need no
// nil checks when the caller does not care about metrics.
type Noop struct{}

func (Noop) CacheHit()            {}
func (Noop) CacheMiss()           {}
func (Noop) CacheExpired()        {}
func (Noop) CacheInvalidated(int) {}
func (Noop) DedupShared()         {}
func (Noop) BatchFlush(int)       {}
