package store

import (
	"sync"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/wizard"
)

// SessionStore is a thread-safe in-memory store for wizard sessions,
// keyed by session id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*wizard.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*wizard.Session),
	}
}

// Put adds a session to the store.
func (s *SessionStore) Put(sess *wizard.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
}

// Get retrieves a session by id. It returns
// domain.ErrSessionNotFound if the session does not exist.
func (s *SessionStore) Get(id string) (*wizard.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session by id. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}
