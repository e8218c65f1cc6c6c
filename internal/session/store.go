// Package session holds pending multi-match edit proposals between the
// call that discovered the ambiguity and the follow-up call that
// resolves it.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kvit-s/filesmith/internal/match"
)

// DefaultTTL is how long a pending session stays resolvable.
const DefaultTTL = 5 * time.Minute

// ErrInvalidToken is returned for unknown, consumed and expired tokens.
// Expiry deliberately looks identical to an unknown token.
var ErrInvalidToken = fmt.Errorf("unknown or expired edit session token")

// FileMismatchError is returned when a resolution names a different
// file than the session was created for.
type FileMismatchError struct {
	Want string
	Got  string
}

func (e *FileMismatchError) Error() string {
	return fmt.Sprintf("session belongs to %s, not %s", e.Want, e.Got)
}

// InvalidSelectionError is returned when an ordinal is outside the
// session's match range. The whole resolution fails; nothing is applied.
type InvalidSelectionError struct {
	Ordinal int
	Count   int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("match ordinal %d out of range 0..%d", e.Ordinal, e.Count-1)
}

// Session is one pending disambiguation: the file, the search/replace
// pair, and every match found, keyed by an opaque token.
type Session struct {
	Token   string
	Path    string
	Old     string
	New     string
	Matches []match.Match
	Created time.Time
}

// Selection says which matches to apply: everything, or an explicit set
// of ordinals into the session's match list.
type Selection struct {
	All      bool
	Ordinals []int
}

// Store is the process-wide session registry. Expiry is lazy: a stale
// session is treated as absent on next access. Sweep exists for memory
// hygiene but no background timer is required.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates a Store with the given TTL (0 means DefaultTTL).
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create stores a pending session and returns its fresh opaque token.
func (s *Store) Create(path, old, new string, matches []match.Match) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = &Session{
		Token:   token,
		Path:    path,
		Old:     old,
		New:     new,
		Matches: matches,
		Created: s.now(),
	}
	s.mu.Unlock()
	return token
}

// Take looks up a live session by token and validates the file it is
// being resolved against. The session stays stored; callers delete it
// with Delete once the resolution has been applied.
func (s *Store) Take(token, path string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	if s.now().Sub(sess.Created) > s.ttl {
		delete(s.sessions, token)
		return nil, ErrInvalidToken
	}
	if sess.Path != path {
		return nil, &FileMismatchError{Want: sess.Path, Got: path}
	}
	return sess, nil
}

// Delete removes a session. Safe to call with unknown tokens.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	cutoff := s.now().Add(-s.ttl)
	for token, sess := range s.sessions {
		if sess.Created.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, stale ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
