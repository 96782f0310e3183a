package game

import (
	"fmt"
	"strings"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/catalog"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// LocationPicker draws the location for a new game
type LocationPicker interface {
	Pick(rng catalog.Rand, includeSecret bool, minRoles int) (models.Location, error)
}

// Join adds a player to the lobby roster
func Join(s *models.Session, userID, name string) (*models.Player, error) {
	if s.Phase != models.PhaseLobby {
		return nil, apperr.New(apperr.CodeWrongPhase, "The game has already started, wait for the next one.")
	}
	if p, ok := s.Player(userID); ok {
		return nil, apperr.New(apperr.CodeAlreadyJoined, fmt.Sprintf("%s, you are already player %d.", p.Name, p.Number))
	}
	if len(s.Players) >= MaxPlayers {
		return nil, apperr.New(apperr.CodeRosterFull, fmt.Sprintf("The game is full (%d players).", MaxPlayers))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player %d", len(s.Players)+1)
	}
	p := &models.Player{
		UserID: userID,
		Name:   name,
		Number: len(s.Players) + 1,
	}
	s.Players = append(s.Players, p)
	return p, nil
}

// Start draws a location, deals roles and chooses the first questioner.
// A failed start leaves the session untouched
func Start(s *models.Session, starterID string, picker LocationPicker, rng Rand) error {
	if s.Phase != models.PhaseLobby {
		return apperr.New(apperr.CodeWrongPhase, "A game is already running.")
	}
	if _, ok := s.Player(starterID); !ok {
		return apperr.New(apperr.CodeNotJoined, "Join the game before starting it.")
	}
	if len(s.Players) < MinPlayers {
		return apperr.New(apperr.CodeInsufficientPlayers,
			fmt.Sprintf("Need at least %d players to start (%d joined).", MinPlayers, len(s.Players)))
	}

	location, err := picker.Pick(rng, s.SecretsUnlocked, len(s.Players)-1)
	if err != nil {
		return err
	}
	roles, err := Assign(s.Players, location, rng)
	if err != nil {
		return err
	}

	for _, p := range s.Players {
		p.Role = roles[p.UserID]
		p.VotedFor = 0
		p.HasVoted = false
	}
	s.Location = &location
	s.FirstQuestioner = rng.IntN(len(s.Players)) + 1
	s.Phase = models.PhaseInProgress
	return nil
}

// CastVote records voterID's first vote for the player numbered target
func CastVote(s *models.Session, voterID string, target int) (*models.Player, error) {
	if s.Phase != models.PhaseInProgress {
		return nil, apperr.New(apperr.CodeWrongPhase, "Voting is only open while a game is running.")
	}
	voter, ok := s.Player(voterID)
	if !ok {
		return nil, apperr.New(apperr.CodeNotJoined, "You are not playing in this game.")
	}
	if voter.HasVoted {
		return nil, apperr.New(apperr.CodeAlreadyVoted, fmt.Sprintf("%s, you already voted for player %d.", voter.Name, voter.VotedFor))
	}
	if target < 1 {
		return nil, apperr.New(apperr.CodeInvalidTarget, "Vote with a player number, e.g. \"vote 2\".")
	}
	suspect, ok := s.PlayerByNumber(target)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidTarget,
			fmt.Sprintf("There is no player %d. Pick a number from 1 to %d.", target, len(s.Players)))
	}
	voter.VotedFor = target
	voter.HasVoted = true
	return suspect, nil
}

// EndVoting closes the vote. An identified spy moves the game to SpyGuessing,
// anything else concludes it with the spy escaping
func EndVoting(s *models.Session, userID string) (VoteResult, error) {
	if s.Phase != models.PhaseInProgress {
		return VoteResult{}, apperr.New(apperr.CodeWrongPhase, "There is no vote to close right now.")
	}
	if _, ok := s.Player(userID); !ok {
		return VoteResult{}, apperr.New(apperr.CodeNotJoined, "You are not playing in this game.")
	}

	s.Phase = models.PhaseVoting
	result := CountVotes(s.Players)
	if result.Leader != nil && result.Leader.IsSpy() {
		s.Phase = models.PhaseSpyGuessing
		return result, nil
	}
	conclude(s, models.OutcomeSpyWinsByEvasion)
	return result, nil
}

// Guess resolves the spy's last chance. It reports false when userID is not
// the spy, in which case nothing changes
func Guess(s *models.Session, userID string, location models.Location) (bool, error) {
	if s.Phase != models.PhaseSpyGuessing {
		return false, apperr.New(apperr.CodeWrongPhase, "Only the unmasked spy can guess, and only after the vote.")
	}
	p, ok := s.Player(userID)
	if !ok || !p.IsSpy() {
		return false, nil
	}
	if s.Location != nil && strings.EqualFold(location.Name, s.Location.Name) {
		conclude(s, models.OutcomeSpyWinsByGuess)
	} else {
		conclude(s, models.OutcomeTeamWins)
	}
	return true, nil
}

// Quit abandons the game from any phase
func Quit(s *models.Session) {
	conclude(s, models.OutcomeAborted)
}

// UnlockSecrets adds secret locations to this session's draw
func UnlockSecrets(s *models.Session) error {
	if s.Phase != models.PhaseLobby && s.Phase != models.PhaseInProgress {
		return apperr.New(apperr.CodeWrongPhase, "Too late for magic now.")
	}
	s.SecretsUnlocked = true
	return nil
}

// SetDeveloperMode switches the session's developer commands on or off and
// reports whether the flag changed
func SetDeveloperMode(s *models.Session, on bool) bool {
	changed := s.DeveloperMode != on
	s.DeveloperMode = on
	return changed
}

func conclude(s *models.Session, outcome models.Outcome) {
	s.Phase = models.PhaseConcluded
	s.Outcome = outcome
}
