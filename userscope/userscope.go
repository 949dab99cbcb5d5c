// Package userscope partitions the response cache by authenticated user so
// that one user's cached data can never be served to another. Switching users
// evicts the whole underlying store rather than filtering by prefix: a
// deliberate trade of warm entries for a leak-proof boundary.
package userscope

import (
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/finbook/finbook-go/store"
)

const prefix = "user_"

// Cache wraps a store.Store and namespaces every key by the active user.
// At most one user namespace is active at a time.
type Cache struct {
	mu     sync.Mutex
	store  *store.Store
	userID string // empty means no active user
	log    *zap.Logger
}

// New wraps st. A nil log discards diagnostics.
func New(st *store.Store, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{store: st, log: log}
}

// SetUserID records id as the active user. When id differs from the current
// active user, or no user was active, the whole underlying store is cleared
// first; no entry written under the previous namespace survives a switch.
func (c *Cache) SetUserID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.userID && id != "" {
		return
	}
	c.store.Clear()
	c.userID = id
}

// UserID returns the active user id; ok is false when no user is active.
func (c *Cache) UserID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.userID != ""
}

// Get reads key from the active user's namespace.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.store.Get(c.namespaced(key))
}

// Set writes val under key in the active user's namespace.
func (c *Cache) Set(key string, val []byte) {
	c.store.Set(c.namespaced(key), val)
}

// Delete removes key from the active user's namespace.
func (c *Cache) Delete(key string) {
	c.store.Delete(c.namespaced(key))
}

// DeleteByPattern removes every underlying entry whose (namespaced) key
// matches re and returns the number removed.
func (c *Cache) DeleteByPattern(re *regexp.Regexp) int {
	return c.store.DeleteByPattern(re)
}

// ClearCurrentUser removes every entry belonging to the active user, then
// clears the active-user marker. Unlike Clear it leaves entries written
// without a namespace untouched.
func (c *Cache) ClearCurrentUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID == "" {
		return
	}
	re := regexp.MustCompile("^" + regexp.QuoteMeta(prefix+c.userID+"_"))
	c.store.DeleteByPattern(re)
	c.userID = ""
}

// Clear wipes every entry regardless of namespace. The active-user marker is
// kept, so subsequent writes continue under the same user.
func (c *Cache) Clear() {
	c.store.Clear()
}

// namespaced maps a logical key into the active user's namespace. With no
// active user the raw key is used and a diagnostic is logged; the cache keeps
// working, it just loses per-user isolation until a user is set.
func (c *Cache) namespaced(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID == "" {
		c.log.Warn("cache access with no active user, using raw key",
			zap.String("key", key))
		return key
	}
	return prefix + c.userID + "_" + key
}
