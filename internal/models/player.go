package models

// SpyRole is the role value held by the single spy of a game
const SpyRole = "Spy"

// Player represents a player in a session roster
type Player struct {
	UserID   string
	Name     string
	Number   int    // 1-based join order
	Role     string // empty until the game starts
	VotedFor int    // player number, 0 until voted
	HasVoted bool
}

// IsSpy reports whether the player was handed the spy role
func (p *Player) IsSpy() bool {
	return p.Role == SpyRole
}
