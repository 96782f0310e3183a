package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
	"github.com/aaronzipp/spyfall-bot/internal/store"
)

// Catalog is what the interpreter needs from the location catalog
type Catalog interface {
	game.LocationPicker
	Match(text string, includeSecret bool) (models.Location, bool)
	ListNames(includeSecret bool) []string
	Snapshot() (public, secret []models.Location)
	AddSecret(ctx context.Context, name string, roles []string) error
	RemoveAny(ctx context.Context, name string) error
}

// Context holds shared application dependencies
type Context struct {
	Sessions      *store.Registry
	Catalog       Catalog
	Rand          game.Rand // must be safe for concurrent use
	Logger        *zap.Logger
	DevPassphrase string
	DevExitPhrase string
}

// NewContext builds the interpreter; phrases are normalized the same way as chat text
func NewContext(sessions *store.Registry, catalog Catalog, rng game.Rand, logger *zap.Logger, passphrase, exitPhrase string) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		Sessions:      sessions,
		Catalog:       catalog,
		Rand:          rng,
		Logger:        logger,
		DevPassphrase: Normalize(passphrase),
		DevExitPhrase: Normalize(exitPhrase),
	}
}

// HandleCommand interprets one inbound message and returns what to send back
func (h *Context) HandleCommand(ctx context.Context, ev models.CommandEvent) []models.Directive {
	if ev.Scope == models.ScopeDirect {
		return h.handleDirect(ev)
	}

	var out []models.Directive
	h.Sessions.Do(ev.SessionID, func(s *models.Session) bool {
		var cmd Command
		if s.Phase == models.PhaseSpyGuessing && isSpy(s, ev.SenderID) {
			// the spy's last chance wins over keywords, e.g. a location named "Players"
			cmd = h.classifyGuess(s, ev.Text)
		}
		if cmd.Kind == CmdNone {
			cmd = Parse(ev.Text, ParseOptions{
				DeveloperMode: s.DeveloperMode,
				Passphrase:    h.DevPassphrase,
				ExitPhrase:    h.DevExitPhrase,
			})
		}
		if cmd.Kind == CmdNone {
			return false
		}

		logger := h.sessionLogger(s).With(zap.String("user", ev.SenderID), zap.Stringer("command", cmd.Kind))
		logger.Debug("command received")

		directives, err := h.dispatch(ctx, s, ev, cmd, logger)
		if err != nil {
			out = h.errorReply(s.ID, err, logger)
			return false
		}
		out = directives
		return s.Phase == models.PhaseConcluded
	})
	return out
}

// HandleLifecycle reacts to the bot joining or leaving a group
func (h *Context) HandleLifecycle(ev models.LifecycleEvent) []models.Directive {
	switch ev.Kind {
	case models.BotJoined:
		s := h.Sessions.Create(ev.SessionID)
		h.Logger.Info("bot joined group", zap.String("session", s.ID), zap.String("game", s.GameID))
		return []models.Directive{models.Reply(ev.SessionID, render.Greeting())}
	case models.BotLeft:
		if err := h.Sessions.Delete(ev.SessionID); err != nil {
			h.Logger.Debug("bot left group without a session", zap.String("session", ev.SessionID), zap.Error(err))
			return nil
		}
		h.Logger.Info("bot left group, session dropped", zap.String("session", ev.SessionID))
	}
	return nil
}

func (h *Context) dispatch(ctx context.Context, s *models.Session, ev models.CommandEvent, cmd Command, logger *zap.Logger) ([]models.Directive, error) {
	switch cmd.Kind {
	case CmdJoin:
		return h.handleJoin(s, ev)
	case CmdPlayers:
		return reply(s, render.PlayerList(s)), nil
	case CmdLocations:
		return reply(s, render.Locations(h.Catalog.ListNames(s.SecretsUnlocked), s.SecretsUnlocked)), nil
	case CmdRules:
		return reply(s, render.Rules()), nil
	case CmdCommands:
		return reply(s, render.Commands(s.DeveloperMode)), nil
	case CmdStart:
		return h.handleStart(s, ev, logger)
	case CmdQuit:
		return h.handleQuit(s, logger), nil
	case CmdVote:
		return h.handleVote(s, ev, cmd)
	case CmdVoteEnd:
		return h.handleVoteEnd(s, ev, logger)
	case CmdGuess:
		return h.handleGuess(s, ev, cmd, logger)
	case CmdUnlock:
		return h.handleUnlock(s, logger)
	case CmdDevToggle:
		return h.handleDeveloperMode(s, !s.DeveloperMode, logger), nil
	case CmdDevExit:
		return h.handleDeveloperMode(s, false, logger), nil
	case CmdAddLocation:
		return h.handleAddLocation(ctx, s, cmd)
	case CmdDeleteLocation:
		return h.handleDeleteLocation(ctx, s, cmd)
	case CmdPrintCatalog:
		public, secret := h.Catalog.Snapshot()
		return reply(s, render.Catalog(public, secret)), nil
	}
	return nil, apperr.New(apperr.CodeInternal, fmt.Sprintf("unhandled command %v", cmd.Kind))
}

// handleDirect answers the informational commands in a private chat
func (h *Context) handleDirect(ev models.CommandEvent) []models.Directive {
	cmd := Parse(ev.Text, ParseOptions{})
	var text string
	switch cmd.Kind {
	case CmdNone:
		return nil
	case CmdRules:
		text = render.Rules()
	case CmdCommands:
		text = render.Commands(false)
	case CmdLocations:
		text = render.Locations(h.Catalog.ListNames(false), false)
	default:
		text = render.DirectHint()
	}
	return []models.Directive{models.Reply(ev.SessionID, text)}
}
