package game

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 3

	// MaxPlayers is the largest roster a session accepts
	MaxPlayers = 8
)
