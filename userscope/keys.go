package userscope

import "github.com/finbook/finbook-go/cachekey"

// Key builders for the well-known read operations. Callers should use these
// instead of hand-building strings so cache writes and invalidation patterns
// cannot drift apart.

// TransactionsKey returns the cache key for one month's transaction list.
func TransactionsKey(monthYear string) string {
	return cachekey.Build("get", "/transactions", map[string]any{"monthYear": monthYear})
}

// SummaryKey returns the cache key for one month's summary.
func SummaryKey(monthYear string) string {
	return cachekey.Build("get", "/summary", map[string]any{"monthYear": monthYear})
}

// MonthsKey returns the cache key for the list of months that have data.
func MonthsKey() string {
	return cachekey.Build("get", "/months", nil)
}
