// Package auth holds the process-wide credential state and the token refresh
// protocol that keeps it valid.
//
// Exactly one [Store] exists per process. It is constructed at startup,
// threaded through the client and orchestrator, and mutated only by
// [Store.Set] during bootstrap and by [Refresher.Refresh] when a call
// observes an expired token.
package auth

import (
	"sync"
)

// Credential is the current access/refresh token pair and the user it
// belongs to. Never serialized by this package.
type Credential struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Store holds the single current [Credential].
type Store struct {
	mu   sync.RWMutex
	cred Credential
}

// NewStore creates a Store seeded with the given credential.
func NewStore(cred Credential) *Store {
	return &Store{cred: cred}
}

// Get returns the current credential.
func (s *Store) Get() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Set overwrites the whole credential.
func (s *Store) Set(cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
}

// SetAccessToken overwrites the access token in place, leaving the refresh
// token and user id untouched. Called by the refresh protocol.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred.AccessToken = token
}

// Authorized reports whether an access token is present.
func (s *Store) Authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken != ""
}
