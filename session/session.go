// Package session tracks the identity of the signed-in user. The cache
// layers key all isolation off this identity; it is process-local state and
// is lost on restart by design.
package session

import "sync"

// Store holds the active user id. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	userID string
}

// New creates an empty Store with no signed-in user.
func New() *Store {
	return &Store{}
}

// Set records id as the signed-in user.
func (s *Store) Set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
}

// Clear forgets the signed-in user.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}

// Current returns the signed-in user id; ok is false when nobody is signed
// in.
func (s *Store) Current() (id string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.userID != ""
}
