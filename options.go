package finbook

import (
	"time"

	"go.uber.org/zap"

	"github.com/finbook/finbook-go/metrics"
)

// Option configures a Client.
type Option func(*config)

// WithTTL overrides the default 5 minute time-to-live for cached responses.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithBatchWindow overrides the default 50ms window during which requests
// for the same batch key are held open to coalesce.
func WithBatchWindow(d time.Duration) Option {
	return func(c *config) { c.window = d }
}

// WithLogger installs a structured logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithMetrics installs a metrics recorder shared by the cache, the
// deduplicator and the batching scheduler. The default discards all events.
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *config) { c.rec = rec }
}
