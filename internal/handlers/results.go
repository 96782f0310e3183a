package handlers

import (
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// concluded announces the outcome and asks the adapter to leave the chat
func (h *Context) concluded(s *models.Session, result *game.VoteResult, logger *zap.Logger) []models.Directive {
	logger.Info("game concluded", zap.String("outcome", string(s.Outcome)))
	return []models.Directive{
		models.Reply(s.ID, render.Outcome(s, result)),
		models.Leave(s.ID),
	}
}
