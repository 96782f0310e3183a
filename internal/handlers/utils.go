package handlers

import (
	"errors"

	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

func reply(s *models.Session, text string) []models.Directive {
	return []models.Directive{models.Reply(s.ID, text)}
}

func (h *Context) sessionLogger(s *models.Session) *zap.Logger {
	return h.Logger.With(
		zap.String("session", s.ID),
		zap.String("game", s.GameID),
		zap.String("phase", string(s.Phase)),
	)
}

// errorReply turns a failed command into at most one message for the chat
func (h *Context) errorReply(sessionID string, err error, logger *zap.Logger) []models.Directive {
	code := apperr.CodeOf(err)
	switch code.Kind() {
	case apperr.KindInternal:
		logger.Error("command failed", zap.String("code", string(code)), zap.Error(err))
		return nil
	case apperr.KindIO:
		logger.Warn("command failed", zap.Error(err))
		return []models.Directive{models.Reply(sessionID, render.StorageFailure())}
	}
	var appErr *apperr.Error
	errors.As(err, &appErr)
	logger.Debug("command rejected", zap.String("code", string(code)))
	return []models.Directive{models.Reply(sessionID, appErr.Message)}
}

func isSpy(s *models.Session, userID string) bool {
	p, ok := s.Player(userID)
	return ok && p.IsSpy()
}

// classifyGuess recognizes a location name sent while the spy is guessing
func (h *Context) classifyGuess(s *models.Session, text string) Command {
	raw := collapse(text)
	if s.Location != nil && Normalize(raw) == Normalize(s.Location.Name) {
		return Command{Kind: CmdGuess, Arg: s.Location.Name}
	}
	if loc, ok := h.Catalog.Match(raw, s.SecretsUnlocked); ok {
		return Command{Kind: CmdGuess, Arg: loc.Name}
	}
	return Command{}
}
