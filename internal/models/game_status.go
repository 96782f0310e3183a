package models

// Phase represents the lifecycle phase of a session
type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseInProgress  Phase = "in_progress"
	PhaseVoting      Phase = "voting"
	PhaseSpyGuessing Phase = "spy_guessing"
	PhaseConcluded   Phase = "concluded"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Started reports whether roles have been handed out (roster is frozen)
func (p Phase) Started() bool {
	return p != PhaseLobby
}

// Outcome records how a game ended
type Outcome string

const (
	OutcomeNone             Outcome = ""
	OutcomeSpyWinsByEvasion Outcome = "spy_wins_by_evasion"
	OutcomeSpyWinsByGuess   Outcome = "spy_wins_by_guess"
	OutcomeTeamWins         Outcome = "team_wins"
	OutcomeAborted          Outcome = "aborted"
)
