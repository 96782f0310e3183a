package web

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// sendTimeout bounds how long a slow client may hold up a broadcast
const sendTimeout = 2 * time.Second

// Hub tracks the open connections of every web session
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{}
	logger   *zap.Logger
}

func newHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		logger:   logger,
	}
}

// add registers a client and warns about duplicate connections of one user
func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.sessions[c.sessionID]
	if clients == nil {
		clients = make(map[*client]struct{})
		h.sessions[c.sessionID] = clients
	}
	dup := 0
	for other := range clients {
		if other.userID == c.userID {
			dup++
		}
	}
	if dup > 0 {
		h.logger.Warn("user opened additional connection",
			zap.String("session", c.sessionID), zap.String("user", c.userID), zap.Int("existing", dup))
	}
	clients[c] = struct{}{}
}

// remove unregisters a client and reports whether it was the session's last
func (h *Hub) remove(c *client) (last bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return false
	}
	if _, member := clients[c]; !member {
		return false
	}
	delete(clients, c)
	c.stop()
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
		return true
	}
	return false
}

// count returns the number of open connections in a session
func (h *Hub) count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// broadcast sends msg to every connection of a session
func (h *Hub) broadcast(sessionID string, msg Message) {
	h.sendWhere(sessionID, msg, func(*client) bool { return true })
}

// sendTo sends msg to one user's connections in a session
func (h *Hub) sendTo(sessionID, userID string, msg Message) {
	h.sendWhere(sessionID, msg, func(c *client) bool { return c.userID == userID })
}

func (h *Hub) sendWhere(sessionID string, msg Message, match func(*client) bool) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		if match(c) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if c.deliver(msg) {
			delivered++
		}
	}
	h.logger.Debug("web message sent",
		zap.String("session", sessionID), zap.String("type", msg.Type),
		zap.Int("delivered", delivered), zap.Int("targets", len(targets)))
}
