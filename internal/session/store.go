// Package session holds the single source of truth for authentication state.
//
// One live [models.Session] exists per running client; every mutation is
// persisted before it is published, and all three session fields change
// together, so a token without an identity is never observable.
package session

import (
	"fmt"
	"sync"

	"github.com/desertthunder/convx/internal/models"
)

// Repository abstracts durable storage for the session. Implementations must
// write and clear all session fields atomically.
type Repository interface {
	Save(models.Session) error
	Load() (models.Session, bool, error)
	Clear() error
}

// Listener is notified after every session change. A false second argument
// means the session was cleared.
type Listener func(models.Session, bool)

// Store is the injectable session holder shared by the transport layer and
// the CLI. All reads and writes are safe for concurrent use, and a mutation
// is visible to every reader by the time the mutating call returns.
type Store struct {
	mu        sync.RWMutex
	current   models.Session
	live      bool
	repo      Repository
	listeners []Listener
}

// NewStore creates a session store backed by repo. A nil repo keeps the
// session in memory only.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Hydrate loads the persisted session into memory. Called once at startup;
// a missing persisted session leaves the store unauthenticated.
func (s *Store) Hydrate() error {
	if s.repo == nil {
		return nil
	}

	sess, ok, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.live = ok
	s.mu.Unlock()

	return nil
}

// Current returns the live session, if any.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.live
}

// AccessToken returns the current bearer token, or "" when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.live {
		return ""
	}
	return s.current.Token.AccessToken
}

// Authenticated reports whether a live session exists.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Admin reports whether the current identity carries the admin role.
func (s *Store) Admin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live && s.current.Identity.IsAdmin()
}

// Set persists and publishes a new session. The persisted and in-memory
// states change together; on a persistence failure the store is untouched.
func (s *Store) Set(sess models.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	if !sess.Live() {
		return fmt.Errorf("refusing to set an empty session, use Clear")
	}

	if s.repo != nil {
		if err := s.repo.Save(sess); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}

	s.mu.Lock()
	s.current = sess
	s.live = true
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess, true)
	}

	return nil
}

// Clear wipes the persisted and in-memory session wholesale.
func (s *Store) Clear() error {
	if s.repo != nil {
		if err := s.repo.Clear(); err != nil {
			return fmt.Errorf("failed to clear persisted session: %w", err)
		}
	}

	s.mu.Lock()
	s.current = models.Session{}
	s.live = false
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(models.Session{}, false)
	}

	return nil
}

// Subscribe registers a listener invoked synchronously after every mutation.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
