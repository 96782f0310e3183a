package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// handleUnlock puts the secret locations into this session's draw
func (h *Context) handleUnlock(s *models.Session, logger *zap.Logger) ([]models.Directive, error) {
	if err := game.UnlockSecrets(s); err != nil {
		return nil, err
	}
	logger.Info("secret locations unlocked")
	return reply(s, render.SecretsUnlocked()), nil
}

func (h *Context) handleDeveloperMode(s *models.Session, on bool, logger *zap.Logger) []models.Directive {
	if game.SetDeveloperMode(s, on) {
		logger.Info("developer mode changed", zap.Bool("on", on))
	}
	return reply(s, render.DeveloperMode(on))
}

func (h *Context) handleAddLocation(ctx context.Context, s *models.Session, cmd Command) ([]models.Directive, error) {
	if err := h.Catalog.AddSecret(ctx, cmd.Arg, cmd.Roles); err != nil {
		return nil, err
	}
	return reply(s, render.LocationAdded(collapse(cmd.Arg), len(cmd.Roles))), nil
}

func (h *Context) handleDeleteLocation(ctx context.Context, s *models.Session, cmd Command) ([]models.Directive, error) {
	if err := h.Catalog.RemoveAny(ctx, cmd.Arg); err != nil {
		return nil, err
	}
	return reply(s, render.LocationDeleted(cmd.Arg)), nil
}
