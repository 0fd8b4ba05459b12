// Package cache implements a generic TTL key/value store used to front the
// remote service's read-heavy endpoints.
//
// # Key Namespace
//
// Callers namespace string keys by purpose. The orchestrator uses:
//
//	devices          playback device list
//	player-context   current playback snapshot
//	artist_<id>      single artist metadata
//	track_<id>       single track metadata
//
// Collisions across purposes are a caller responsibility; the namespace above
// is part of the public contract so alternative frontends stay
// cache-compatible.
//
// # Expiry
//
// Expiry is lazy: an expired entry is detected and removed on the next Get.
// A TTL of zero or less means the entry only leaves the store via
// [Store.Invalidate].
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

type entry struct {
	value     any
	expiresAt time.Time // zero means no time expiry
}

// Store is a TTL cache with string keys.
//
// One logical Store exists per process session; mutations on the same key are
// serialized internally so concurrent readers are safe.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     Clock
}

// New creates an empty Store using the real clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty Store with the given [Clock].
func NewWithClock(now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{entries: make(map[string]entry), now: now}
}

// Get returns the stored value for key and whether it was present and
// unexpired. Expired entries are evicted on access.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key. A ttl of zero or less disables time expiry.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
}

// Invalidate removes key immediately regardless of TTL.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len reports the number of entries, counting expired entries that have not
// been lazily evicted yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Value retrieves key from store and type-asserts it to T.
// Absent or mistyped entries report false.
func Value[T any](store *Store, key string) (T, bool) {
	var zero T
	raw, ok := store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
