package store

import (
	"regexp"
	"slices"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_GetSet(t *testing.T) {
	s := New()

	if _, ok := s.Get("k1"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set("k1", []byte("v1"))
	val, ok := s.Get("k1")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(val) != "v1" {
		t.Fatalf("got %q, want %q", val, "v1")
	}

	// Overwrite.
	s.Set("k1", []byte("v2"))
	val, _ = s.Get("k1")
	if string(val) != "v2" {
		t.Fatalf("got %q, want %q", val, "v2")
	}
}

func TestStore_TTLExpiresLazily(t *testing.T) {
	clock := newFakeClock()
	s := New(WithTTL(5*time.Minute), WithClock(clock.Now))

	s.Set("k", []byte("v"))
	if _, ok := s.Get("k"); !ok {
		t.Fatal("expected hit before TTL")
	}

	clock.Advance(5*time.Minute + time.Second)

	if _, ok := s.Get("k"); ok {
		t.Fatal("expected miss after TTL")
	}
	// The expired entry was removed as a side effect of the read.
	if keys := s.Keys(); slices.Contains(keys, "k") {
		t.Fatalf("expired key still listed: %v", keys)
	}
}

func TestStore_ExpiredEntryStaysUntilRead(t *testing.T) {
	clock := newFakeClock()
	s := New(WithTTL(time.Minute), WithClock(clock.Now))

	s.Set("k", []byte("v"))
	clock.Advance(2 * time.Minute)

	// No read yet: the entry is stale but still held.
	if n := s.Len(); n != 1 {
		t.Fatalf("got %d entries, want 1", n)
	}
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected miss")
	}
	if n := s.Len(); n != 0 {
		t.Fatalf("got %d entries after read, want 0", n)
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	s.Set("k", []byte("v"))
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Fatal("expected miss after delete")
	}
	// Deleting a missing key is a no-op.
	s.Delete("k")
}

func TestStore_DeleteByPattern(t *testing.T) {
	s := New()
	s.Set("transactions-2024-01", []byte("x"))
	s.Set("transactions-2024-02", []byte("y"))
	s.Set("available-months", []byte("z"))

	n := s.DeleteByPattern(regexp.MustCompile("transactions"))
	if n != 2 {
		t.Fatalf("removed %d entries, want 2", n)
	}
	if _, ok := s.Get("transactions-2024-01"); ok {
		t.Fatal("expected miss for transactions-2024-01")
	}
	if _, ok := s.Get("transactions-2024-02"); ok {
		t.Fatal("expected miss for transactions-2024-02")
	}
	if _, ok := s.Get("available-months"); !ok {
		t.Fatal("unrelated key was invalidated")
	}
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Set("a", []byte("1"))
	s.Set("b", []byte("2"))
	s.Clear()
	if n := s.Len(); n != 0 {
		t.Fatalf("got %d entries after clear, want 0", n)
	}
}

func TestStore_ReturnedValueIsACopy(t *testing.T) {
	s := New()
	s.Set("k", []byte("original"))

	val, _ := s.Get("k")
	val[0] = 'X'

	again, _ := s.Get("k")
	if string(again) != "original" {
		t.Fatalf("cache corrupted through returned reference: %q", again)
	}
}
