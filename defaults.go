package finbook

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/finbook/finbook-go/metrics"
)

// DefaultOptions returns the recommended set of options for production use.
// Currently this installs Prometheus metrics on the default registry;
// additional defaults may be added in future versions.
func DefaultOptions() []Option {
	return []Option{
		WithMetrics(metrics.NewPrometheus(prometheus.DefaultRegisterer)),
	}
}
