package game

import (
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// VoteResult represents the outcome of vote counting
type VoteResult struct {
	Leader    *models.Player // nil when nobody voted
	LeadVotes int
	IsTie     bool
	VoteCount map[int]int // player number -> votes received
	Cast      int
}

// CountVotes tallies the roster's recorded votes. Among tied leaders the
// lowest player number wins, so identical input always resolves the same way
func CountVotes(players []*models.Player) VoteResult {
	result := VoteResult{VoteCount: make(map[int]int)}
	for _, p := range players {
		if p.HasVoted {
			result.VoteCount[p.VotedFor]++
			result.Cast++
		}
	}

	tied := 0
	for _, p := range players {
		count := result.VoteCount[p.Number]
		if count == 0 {
			continue
		}
		switch {
		case count > result.LeadVotes:
			result.Leader = p
			result.LeadVotes = count
			tied = 1
		case count == result.LeadVotes:
			tied++
		}
	}
	result.IsTie = tied > 1
	return result
}

// VotedCount returns how many players have voted
func VotedCount(players []*models.Player) int {
	n := 0
	for _, p := range players {
		if p.HasVoted {
			n++
		}
	}
	return n
}
