package handlers

import (
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// handleStart deals roles and tells every player theirs privately
func (h *Context) handleStart(s *models.Session, ev models.CommandEvent, logger *zap.Logger) ([]models.Directive, error) {
	if err := game.Start(s, ev.SenderID, h.Catalog, h.Rand); err != nil {
		return nil, err
	}
	logger.Info("game started",
		zap.Int("players", len(s.Players)),
		zap.String("location", s.Location.Name),
		zap.Int("first_questioner", s.FirstQuestioner),
	)

	out := make([]models.Directive, 0, len(s.Players)+1)
	for _, p := range s.Players {
		out = append(out, models.Private(s.ID, p.UserID, render.RoleReveal(p, s.Location)))
	}
	out = append(out, models.Reply(s.ID, render.GameStarted(s)))
	return out, nil
}

// handleQuit abandons the game in any phase
func (h *Context) handleQuit(s *models.Session, logger *zap.Logger) []models.Directive {
	game.Quit(s)
	return h.concluded(s, nil, logger)
}
