// Package ratelimit provides a token-bucket gate, backed by
// golang.org/x/time/rate, applied to outgoing finance API calls so a busy
// dashboard cannot hammer the backend.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket limiter that decides whether an outgoing call
// may proceed.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps calls per second with the
// given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a single call may proceed immediately.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// Wait blocks until a call may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
