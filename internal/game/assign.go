package game

import (
	"fmt"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// Assign picks one spy uniformly from players and deals the location's roles,
// shuffled, to everyone else in roster order. The result maps user id to role
func Assign(players []*models.Player, location models.Location, rng Rand) (map[string]string, error) {
	n := len(players)
	if n == 0 {
		return nil, apperr.New(apperr.CodeInsufficientPlayers, "Nobody has joined yet.")
	}
	if len(location.Roles) < n-1 {
		return nil, apperr.New(apperr.CodeInsufficientRoles,
			fmt.Sprintf("%s only has %d roles for %d players.", location.Name, len(location.Roles), n))
	}

	spyIndex := rng.IntN(n)

	roles := make([]string, len(location.Roles))
	copy(roles, location.Roles)
	rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	assigned := make(map[string]string, n)
	next := 0
	for i, p := range players {
		if i == spyIndex {
			assigned[p.UserID] = models.SpyRole
			continue
		}
		assigned[p.UserID] = roles[next]
		next++
	}
	return assigned, nil
}
