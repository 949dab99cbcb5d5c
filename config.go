package finbook

import (
	"time"

	"go.uber.org/zap"

	"github.com/finbook/finbook-go/metrics"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	ttl    time.Duration
	window time.Duration
	log    *zap.Logger
	rec    metrics.Recorder
}
