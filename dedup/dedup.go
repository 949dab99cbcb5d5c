// Package dedup collapses concurrent identical requests into a single
// underlying call. For any key at most one call is in flight at any instant;
// callers that arrive while it runs share its outcome, including a shared
// failure, and the slot is released when the call settles so a later request
// with the same key starts fresh.
package dedup

import (
	"bytes"
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/finbook/finbook-go/metrics"
)

// Group tracks in-flight requests by canonical key.
type Group struct {
	sf  singleflight.Group
	rec metrics.Recorder
}

// New creates a Group. A nil rec discards metrics.
func New(rec metrics.Recorder) *Group {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Group{rec: rec}
}

// Do executes fn under key, deduplicating concurrent callers. fn observes the
// context of the caller that actually started it; late joiners only wait for
// the shared result. The returned slice is a private copy per caller.
func (g *Group) Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	v, err, shared := g.sf.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if shared {
		g.rec.DedupShared()
	}
	if err != nil {
		return nil, err
	}
	b, _ := v.([]byte)
	return bytes.Clone(b), nil
}
