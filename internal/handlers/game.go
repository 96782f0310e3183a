package handlers

import (
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
)

// handleVote records a vote for a player number
func (h *Context) handleVote(s *models.Session, ev models.CommandEvent, cmd Command) ([]models.Directive, error) {
	suspect, err := game.CastVote(s, ev.SenderID, cmd.Target)
	if err != nil {
		return nil, err
	}
	voter, _ := s.Player(ev.SenderID)
	return reply(s, render.VoteRecorded(voter, suspect, game.VotedCount(s.Players), len(s.Players))), nil
}

// handleVoteEnd closes voting and either unmasks the spy or ends the game
func (h *Context) handleVoteEnd(s *models.Session, ev models.CommandEvent, logger *zap.Logger) ([]models.Directive, error) {
	result, err := game.EndVoting(s, ev.SenderID)
	if err != nil {
		return nil, err
	}
	if result.Cast == 0 {
		logger.Warn("vote closed with no votes cast")
	}
	logger.Info("vote closed",
		zap.Int("votes", result.Cast),
		zap.Int("lead_votes", result.LeadVotes),
		zap.Bool("tie", result.IsTie),
	)
	if s.Phase == models.PhaseSpyGuessing {
		return reply(s, render.SpyCaught(result)), nil
	}
	return h.concluded(s, &result, logger), nil
}

// handleGuess resolves the spy's location guess; other players are ignored
func (h *Context) handleGuess(s *models.Session, ev models.CommandEvent, cmd Command, logger *zap.Logger) ([]models.Directive, error) {
	handled, err := game.Guess(s, ev.SenderID, models.Location{Name: cmd.Arg})
	if err != nil || !handled {
		return nil, err
	}
	logger.Info("spy guessed", zap.String("guess", cmd.Arg))
	return h.concluded(s, nil, logger), nil
}
