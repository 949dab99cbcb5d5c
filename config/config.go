// Package config loads the client's settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything needed to wire a transport and a client.
type Config struct {
	// APIBaseURL is the root of the finance REST API.
	APIBaseURL string `env:"FINBOOK_API_BASE_URL,required,notEmpty"`

	// CacheTTL bounds how long a cached response is served.
	CacheTTL time.Duration `env:"FINBOOK_CACHE_TTL" envDefault:"5m"`

	// BatchWindow is how long the scheduler holds the first call of a batch
	// open for siblings to join.
	BatchWindow time.Duration `env:"FINBOOK_BATCH_WINDOW" envDefault:"50ms"`

	// RequestTimeout caps a single HTTP round trip.
	RequestTimeout time.Duration `env:"FINBOOK_REQUEST_TIMEOUT" envDefault:"30s"`

	// RateLimit is outgoing requests per second; zero disables limiting.
	RateLimit float64 `env:"FINBOOK_RATE_LIMIT" envDefault:"0"`

	// RateBurst is the limiter's burst size when RateLimit is set.
	RateBurst int `env:"FINBOOK_RATE_BURST" envDefault:"5"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
