package handlers

import (
	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// handleJoin adds the sender to the roster
func (h *Context) handleJoin(s *models.Session, ev models.CommandEvent) ([]models.Directive, error) {
	p, err := game.Join(s, ev.SenderID, ev.SenderName)
	if err != nil {
		return nil, err
	}
	return reply(s, render.Joined(p, len(s.Players))), nil
}
