package finbook

// requestOptions is the explicit per-request configuration record assembled
// from RequestOption values.
type requestOptions struct {
	skipCache    bool
	forceRefresh bool
}

// RequestOption adjusts how a single CachedRequest interacts with the cache.
type RequestOption func(*requestOptions)

// SkipCache bypasses the cache entirely for this request: no read before the
// call and no write after it. In-flight deduplication still applies.
func SkipCache() RequestOption {
	return func(o *requestOptions) { o.skipCache = true }
}

// ForceRefresh ignores any cached value but stores the fresh response, so
// subsequent requests are served from cache again.
func ForceRefresh() RequestOption {
	return func(o *requestOptions) { o.forceRefresh = true }
}
