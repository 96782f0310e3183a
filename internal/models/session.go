package models

import "sync"

// Session represents the game played in one chat group
type Session struct {
	ID              string
	GameID          string // per-game id used for log correlation
	Phase           Phase
	Players         []*Player // join order
	Location        *Location // nil until start
	FirstQuestioner int
	SecretsUnlocked bool
	DeveloperMode   bool
	Outcome         Outcome

	mu     sync.Mutex
	closed bool
}

// NewSession creates a session in the lobby phase
func NewSession(id, gameID string) *Session {
	return &Session{
		ID:     id,
		GameID: gameID,
		Phase:  PhaseLobby,
	}
}

// Lock acquires the session's lock
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session's lock
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Close marks the session as dropped from its registry (must be called with lock held)
func (s *Session) Close() {
	s.closed = true
}

// Closed reports whether the session was dropped (must be called with lock held)
func (s *Session) Closed() bool {
	return s.closed
}

// Player finds a roster member by user id
func (s *Session) Player(userID string) (*Player, bool) {
	for _, p := range s.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return nil, false
}

// PlayerByNumber finds a roster member by player number
func (s *Session) PlayerByNumber(number int) (*Player, bool) {
	if number < 1 || number > len(s.Players) {
		return nil, false
	}
	return s.Players[number-1], true
}

// Spy returns the player holding the spy role, if roles were assigned
func (s *Session) Spy() (*Player, bool) {
	for _, p := range s.Players {
		if p.IsSpy() {
			return p, true
		}
	}
	return nil, false
}
