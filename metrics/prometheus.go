package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus is a Recorder that exports events as Prometheus metrics.
type Prometheus struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	expired      prometheus.Counter
	invalidated  prometheus.Counter
	dedupShared  prometheus.Counter
	batchFlushes prometheus.Counter
	batchWaiters prometheus.Histogram
}

// NewPrometheus creates a Recorder registered on reg. Pass
// prometheus.DefaultRegisterer to export through the default registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_cache_hits_total",
			Help: "Reads served from the in-memory cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_cache_misses_total",
			Help: "Reads that found no fresh cache entry.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_cache_expired_total",
			Help: "Entries removed at read time because their TTL elapsed.",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_cache_invalidated_total",
			Help: "Entries removed by pattern-based invalidation.",
		}),
		dedupShared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_dedup_shared_total",
			Help: "Callers that joined an identical request already in flight.",
		}),
		batchFlushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finbook_batch_flushes_total",
			Help: "Batch windows that elapsed and flushed.",
		}),
		batchWaiters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_batch_waiters",
			Help:    "Number of callers coalesced per batch flush.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
	}
	reg.MustRegister(
		p.hits, p.misses, p.expired, p.invalidated,
		p.dedupShared, p.batchFlushes, p.batchWaiters,
	)
	return p
}

func (p *Prometheus) CacheHit()     { p.hits.Inc() }
func (p *Prometheus) CacheMiss()    { p.misses.Inc() }
func (p *Prometheus) CacheExpired() { p.expired.Inc() }

func (p *Prometheus) CacheInvalidated(n int) { p.invalidated.Add(float64(n)) }
func (p *Prometheus) DedupShared()           { p.dedupShared.Inc() }

func (p *Prometheus) BatchFlush(waiters int) {
	p.batchFlushes.Inc()
	p.batchWaiters.Observe(float64(waiters))
}
