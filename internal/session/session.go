// Package session implements the gateway's opaque session store. Each
// session binds a caller-visible id to a customer's frontend token with a
// sliding expiry.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"nop-gateway/internal/model"
)

// Session is the state attached to one logged-in caller.
type Session struct {
	ID            string
	CustomerID    int64
	FrontendToken string
	Email         string
	ExpiresAt     time.Time
}

// Store holds sessions in memory. Safe for concurrent use. Expired sessions
// are evicted lazily on access; there is no background sweeper.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a session store with the given sliding TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session and returns it. The id is 256 bits of
// randomness, URL-safe, and never derived from the customer's identity.
func (s *Store) Create(customerID int64, frontendToken, email string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, model.NewInternalError(fmt.Errorf("generating session id: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &Session{
		ID:            id,
		CustomerID:    customerID,
		FrontendToken: frontendToken,
		Email:         email,
		ExpiresAt:     s.now().Add(s.ttl),
	}
	s.sessions[id] = sess
	return copySession(sess), nil
}

// ValidateAndTouch looks up a session and, when valid, extends its expiry by
// the full TTL. Lookup, expiry check, and extension happen atomically: two
// concurrent calls on the same id cannot disagree about liveness. Expired
// sessions are evicted here.
func (s *Store) ValidateAndTouch(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, model.NewSessionNotFoundError()
	}
	if !sess.ExpiresAt.After(s.now()) {
		delete(s.sessions, id)
		return nil, model.NewSessionExpiredError()
	}

	sess.ExpiresAt = s.now().Add(s.ttl)
	return copySession(sess), nil
}

// Destroy removes a session. Destroying an unknown or already-destroyed id
// is a no-op: logout is idempotent.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of stored sessions, including any expired ones not
// yet evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func copySession(sess *Session) *Session {
	c := *sess
	return &c
}
