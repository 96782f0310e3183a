// Package render builds the chat messages the bot sends
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// Greeting is sent when the bot is added to a group
func Greeting() string {
	var b strings.Builder
	b.WriteString("Hi! I run games of Spyfall.\n")
	b.WriteString("Everyone who wants to play, send: join\n")
	b.WriteString("Then send: start\n\n")
	b.WriteString("Send \"rules\" to learn how to play or \"commands\" for everything I understand.")
	return b.String()
}

// DirectHint answers commands sent outside a group chat
func DirectHint() string {
	return "Add me to a group chat to play. Send \"rules\" or \"commands\" here any time."
}

// Rules explains the game
func Rules() string {
	var b strings.Builder
	b.WriteString("How to play Spyfall\n\n")
	b.WriteString("1. Everyone joins, then someone sends \"start\".\n")
	b.WriteString("2. I message each of you privately: all but one of you get the same location and a role there. ")
	b.WriteString("The odd one out is the Spy and does not know the location.\n")
	b.WriteString("3. Take turns asking each other questions about the location. ")
	b.WriteString("Be specific enough to prove you know it, vague enough not to give it away.\n")
	b.WriteString("4. When you are ready, vote for the player you suspect with \"vote <number>\", then send \"vote end\".\n")
	b.WriteString("5. If the most voted player is not the Spy, the Spy wins. ")
	b.WriteString("If it is the Spy, they get one last chance: name the location to win, or the team wins.\n\n")
	b.WriteString("Ties go to the lowest player number.")
	return b.String()
}

// Commands lists the keywords the bot understands
func Commands(developerMode bool) string {
	var b strings.Builder
	b.WriteString("Commands\n")
	b.WriteString("join - join the next game\n")
	b.WriteString("start - deal roles (")
	b.WriteString(strconv.Itoa(game.MinPlayers))
	b.WriteString("-")
	b.WriteString(strconv.Itoa(game.MaxPlayers))
	b.WriteString(" players)\n")
	b.WriteString("players - show who is playing\n")
	b.WriteString("locations - show possible locations\n")
	b.WriteString("vote <number> - vote for a suspect\n")
	b.WriteString("vote end - close the vote\n")
	b.WriteString("quit - abandon the game\n")
	b.WriteString("rules - how to play\n")
	b.WriteString("commands - this list")
	if developerMode {
		b.WriteString("\n\nDeveloper\n")
		b.WriteString("add location <name>: <role>, <role>, ...\n")
		b.WriteString("delete location <name>\n")
		b.WriteString("print catalog")
	}
	return b.String()
}

// PlayerList shows the roster in join order
func PlayerList(s *models.Session) string {
	if len(s.Players) == 0 {
		return "Nobody has joined yet. Send \"join\" to play."
	}
	var b strings.Builder
	b.WriteString("Players (")
	b.WriteString(strconv.Itoa(len(s.Players)))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(game.MaxPlayers))
	b.WriteString(")")
	for _, p := range s.Players {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(p.Number))
		b.WriteString(". ")
		b.WriteString(p.Name)
		if s.Phase == models.PhaseInProgress && p.HasVoted {
			b.WriteString(" ✓")
		}
	}
	if s.Phase == models.PhaseInProgress {
		b.WriteString("\n\n")
		b.WriteString(VoteCount(game.VotedCount(s.Players), len(s.Players)))
	}
	return b.String()
}

// Joined confirms a new player
func Joined(p *models.Player, total int) string {
	return fmt.Sprintf("%s joined as player %d (%d/%d).", p.Name, p.Number, total, game.MaxPlayers)
}

// Locations lists the location names in play
func Locations(names []string, secretsUnlocked bool) string {
	var b strings.Builder
	b.WriteString("Locations:")
	for _, n := range names {
		b.WriteString("\n")
		b.WriteString(n)
	}
	if secretsUnlocked {
		b.WriteString("\n\n(secret locations included)")
	}
	return b.String()
}

// GameStarted announces the start without revealing anything
func GameStarted(s *models.Session) string {
	var b strings.Builder
	b.WriteString("The game has started! I sent everyone their role privately.\n")
	if p, ok := s.PlayerByNumber(s.FirstQuestioner); ok {
		b.WriteString(p.Name)
		b.WriteString(" asks the first question.\n")
	}
	b.WriteString("Vote with \"vote <number>\" and close the vote with \"vote end\".\n\n")
	b.WriteString(PlayerList(s))
	return b.String()
}

// RoleReveal is the private message dealt to one player
func RoleReveal(p *models.Player, location *models.Location) string {
	if p.IsSpy() {
		return "You are the SPY!\nFigure out the location without getting caught."
	}
	return fmt.Sprintf("Location: %s\nYour role: %s", location.Name, p.Role)
}

// VoteRecorded confirms a vote
func VoteRecorded(voter, suspect *models.Player, voted, total int) string {
	return fmt.Sprintf("%s voted for %d. %s. %s", voter.Name, suspect.Number, suspect.Name, VoteCount(voted, total))
}

// VoteCount shows voting progress
func VoteCount(count, total int) string {
	return fmt.Sprintf("%d/%d players have voted.", count, total)
}

// SpyCaught announces the vote found the spy
func SpyCaught(result game.VoteResult) string {
	return fmt.Sprintf("%s got the most votes (%d) and IS the spy!\n%s, you have one chance: send the name of the location.",
		result.Leader.Name, result.LeadVotes, result.Leader.Name)
}

// Outcome summarizes a finished game
func Outcome(s *models.Session, result *game.VoteResult) string {
	var b strings.Builder
	if result != nil && result.Leader != nil && s.Outcome == models.OutcomeSpyWinsByEvasion {
		b.WriteString(result.Leader.Name)
		b.WriteString(" got the most votes (")
		b.WriteString(strconv.Itoa(result.LeadVotes))
		b.WriteString(") but is innocent.\n")
	}
	switch s.Outcome {
	case models.OutcomeSpyWinsByEvasion:
		b.WriteString("The spy got away. Spy wins!")
	case models.OutcomeSpyWinsByGuess:
		b.WriteString("The spy named the location. Spy wins!")
	case models.OutcomeTeamWins:
		b.WriteString("Wrong guess. The team wins!")
	case models.OutcomeAborted:
		b.WriteString("Game abandoned.")
	}
	if spy, ok := s.Spy(); ok && s.Location != nil {
		b.WriteString("\n\nThe spy was ")
		b.WriteString(spy.Name)
		b.WriteString(" and the location was ")
		b.WriteString(s.Location.Name)
		b.WriteString(".")
	}
	b.WriteString("\nThanks for playing!")
	return b.String()
}

// SecretsUnlocked confirms the unlock spell
func SecretsUnlocked() string {
	return "Secret locations are now in play."
}

// DeveloperMode confirms the developer toggle
func DeveloperMode(on bool) string {
	if on {
		return "Developer mode on. Send \"commands\" to see the extra commands."
	}
	return "Developer mode off."
}

// LocationAdded confirms a catalog addition
func LocationAdded(name string, roles int) string {
	return fmt.Sprintf("Added secret location %s with %d roles.", name, roles)
}

// LocationDeleted confirms a catalog removal
func LocationDeleted(name string) string {
	return fmt.Sprintf("Deleted location %s.", name)
}

// Catalog prints every location with its roles
func Catalog(public, secret []models.Location) string {
	var b strings.Builder
	writeTier := func(title string, locs []models.Location) {
		b.WriteString(title)
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(len(locs)))
		b.WriteString(")")
		for _, loc := range locs {
			b.WriteString("\n")
			b.WriteString(loc.Name)
			b.WriteString(": ")
			b.WriteString(strings.Join(loc.Roles, ", "))
		}
	}
	writeTier("Public", public)
	b.WriteString("\n\n")
	writeTier("Secret", secret)
	return b.String()
}

// StorageFailure is shown when the catalog could not be saved
func StorageFailure() string {
	return "Sorry, something went wrong saving the catalog. Nothing was changed."
}
