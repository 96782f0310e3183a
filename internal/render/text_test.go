package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

func sampleSession() *models.Session {
	s := models.NewSession("g", "game")
	s.Players = []*models.Player{
		{UserID: "a", Name: "Ada", Number: 1, Role: "Doctor"},
		{UserID: "b", Name: "Bob", Number: 2, Role: models.SpyRole},
		{UserID: "c", Name: "Cy", Number: 3, Role: "Nurse", HasVoted: true, VotedFor: 2},
	}
	s.Location = &models.Location{Name: "Hospital"}
	return s
}

func TestPlayerListShowsVotesOnlyDuringPlay(t *testing.T) {
	s := sampleSession()

	lobby := PlayerList(s)
	assert.Contains(t, lobby, "1. Ada")
	assert.NotContains(t, lobby, "✓")

	s.Phase = models.PhaseInProgress
	playing := PlayerList(s)
	assert.Contains(t, playing, "3. Cy ✓")
	assert.Contains(t, playing, "1/3 players have voted.")
}

func TestRoleRevealHidesLocationFromSpy(t *testing.T) {
	s := sampleSession()
	assert.Equal(t, "Location: Hospital\nYour role: Doctor", RoleReveal(s.Players[0], s.Location))
	assert.NotContains(t, RoleReveal(s.Players[1], s.Location), "Hospital")
}

func TestCommandsListsDeveloperExtras(t *testing.T) {
	assert.NotContains(t, Commands(false), "print catalog")
	assert.Contains(t, Commands(true), "print catalog")
}

func TestOutcome(t *testing.T) {
	s := sampleSession()
	s.Phase = models.PhaseConcluded

	s.Outcome = models.OutcomeSpyWinsByEvasion
	result := game.VoteResult{Leader: s.Players[0], LeadVotes: 2}
	text := Outcome(s, &result)
	assert.Contains(t, text, "Ada got the most votes (2) but is innocent.")
	assert.Contains(t, text, "The spy was Bob and the location was Hospital.")

	s.Outcome = models.OutcomeTeamWins
	assert.Contains(t, Outcome(s, nil), "The team wins!")

	lobby := models.NewSession("g", "game")
	lobby.Outcome = models.OutcomeAborted
	text = Outcome(lobby, nil)
	assert.Contains(t, text, "Game abandoned.")
	assert.NotContains(t, text, "The spy was")
}

func TestCatalog(t *testing.T) {
	text := Catalog(
		[]models.Location{{Name: "Beach", Roles: []string{"Lifeguard", "Surfer"}}},
		nil,
	)
	assert.Equal(t, "Public (1)\nBeach: Lifeguard, Surfer\n\nSecret (0)", text)
}
