// Package store owns the live game sessions, one per chat group
package store

import (
	"fmt"
	"sync"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// Registry manages session storage and serializes work per session
type Registry struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
	newID    func() string
}

// NewRegistry creates an empty registry. newGameID labels each created session
func NewRegistry(newGameID func() string) *Registry {
	return &Registry{
		sessions: make(map[string]*models.Session),
		newID:    newGameID,
	}
}

// Get retrieves a session by id
func (r *Registry) Get(id string) (*models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, exists := r.sessions[id]
	return s, exists
}

// Create replaces any session under id with a fresh lobby
func (r *Registry) Create(id string) *models.Session {
	r.mu.Lock()
	old := r.sessions[id]
	s := models.NewSession(id, r.newID())
	r.sessions[id] = s
	r.mu.Unlock()

	if old != nil {
		old.Lock()
		old.Close()
		old.Unlock()
	}
	return s
}

// Delete removes a session; ErrSessionNotFound when there was none
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, exists := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !exists {
		return apperr.New(apperr.CodeSessionNotFound, fmt.Sprintf("no session %q", id))
	}
	s.Lock()
	s.Close()
	s.Unlock()
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Do runs fn with exclusive access to the session for id, creating a lobby
// when none exists. When fn reports done the session is dropped before the
// lock is released, so the next command for id starts a fresh lobby
func (r *Registry) Do(id string, fn func(s *models.Session) (done bool)) {
	for {
		s := r.getOrCreate(id)
		s.Lock()
		if s.Closed() {
			// dropped while we waited for the lock
			s.Unlock()
			continue
		}
		if fn(s) {
			s.Close()
			r.mu.Lock()
			if r.sessions[id] == s {
				delete(r.sessions, id)
			}
			r.mu.Unlock()
		}
		s.Unlock()
		return
	}
}

func (r *Registry) getOrCreate(id string) *models.Session {
	if s, ok := r.Get(id); ok {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := models.NewSession(id, r.newID())
	r.sessions[id] = s
	return s
}
