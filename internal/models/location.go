package models

// Tier classifies a location as always available or unlocked per session
type Tier string

const (
	TierPublic Tier = "public"
	TierSecret Tier = "secret"
)

// Location represents a place and the roles players can hold there
type Location struct {
	Name  string
	Roles []string
	Tier  Tier
}

// Clone returns a copy that does not share the role slice
func (l Location) Clone() Location {
	roles := make([]string, len(l.Roles))
	copy(roles, l.Roles)
	return Location{Name: l.Name, Roles: roles, Tier: l.Tier}
}
