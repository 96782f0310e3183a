// Package catalog holds the location definitions games are played in.
//
// Locations come in two tiers. Public locations are always in play; secret
// locations only join the draw once a session unlocks them. Mutations are
// written through a Store before they become visible, so a failed write
// leaves the previous catalog in place
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

// Store persists catalog tiers
type Store interface {
	Load(ctx context.Context) (public, secret []models.Location, err error)
	Save(ctx context.Context, tier models.Tier, locations []models.Location) error
}

// Rand is the randomness Pick needs; *math/rand/v2.Rand satisfies it
type Rand interface {
	IntN(n int) int
}

// Catalog is the process-wide set of locations
type Catalog struct {
	mu     sync.RWMutex
	public []models.Location
	secret []models.Location
	store  Store
	logger *zap.Logger
}

// Open loads a catalog from store
func Open(ctx context.Context, store Store, logger *zap.Logger) (*Catalog, error) {
	public, secret, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c, err := New(public, secret, store, logger)
	if err != nil {
		return nil, err
	}
	c.logger.Info("catalog loaded", zap.Int("public", len(c.public)), zap.Int("secret", len(c.secret)))
	return c, nil
}

// New builds a catalog from in-memory tiers. store may be nil for a read-only catalog
func New(public, secret []models.Location, store Store, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{store: store, logger: logger}
	seen := make(map[string]bool)
	for _, tier := range []struct {
		name models.Tier
		src  []models.Location
		dst  *[]models.Location
	}{
		{models.TierPublic, public, &c.public},
		{models.TierSecret, secret, &c.secret},
	} {
		for _, loc := range tier.src {
			loc, err := normalize(loc.Name, loc.Roles)
			if err != nil {
				return nil, err
			}
			key := foldKey(loc.Name)
			if seen[key] {
				return nil, apperr.New(apperr.CodeInvalidArgument, fmt.Sprintf("duplicate location %q", loc.Name))
			}
			seen[key] = true
			loc.Tier = tier.name
			*tier.dst = append(*tier.dst, loc)
		}
	}
	return c, nil
}

// Lookup finds a location by name, ignoring case
func (c *Catalog) Lookup(name string) (models.Location, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if loc, ok := c.find(foldKey(name), true); ok {
		return loc.Clone(), nil
	}
	return models.Location{}, apperr.New(apperr.CodeLocationNotFound, fmt.Sprintf("No location called %q.", strings.TrimSpace(name)))
}

// Match reports whether text names a location in play for a session
func (c *Catalog) Match(text string, includeSecret bool) (models.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.find(foldKey(text), includeSecret)
	if !ok {
		return models.Location{}, false
	}
	return loc.Clone(), true
}

// ListNames returns public names in catalog order, followed by secret names when requested
func (c *Catalog) ListNames(includeSecret bool) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.public)+len(c.secret))
	for _, loc := range c.public {
		names = append(names, loc.Name)
	}
	if includeSecret {
		for _, loc := range c.secret {
			names = append(names, loc.Name)
		}
	}
	return names
}

// Snapshot returns copies of both tiers
func (c *Catalog) Snapshot() (public, secret []models.Location) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.public), cloneAll(c.secret)
}

// Pick draws a location uniformly among those in play with at least minRoles roles
func (c *Catalog) Pick(rng Rand, includeSecret bool, minRoles int) (models.Location, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var eligible []models.Location
	add := func(locs []models.Location) {
		for _, loc := range locs {
			if len(loc.Roles) >= minRoles {
				eligible = append(eligible, loc)
			}
		}
	}
	add(c.public)
	if includeSecret {
		add(c.secret)
	}
	if len(eligible) == 0 {
		return models.Location{}, apperr.New(apperr.CodeInsufficientRoles,
			fmt.Sprintf("No location has enough roles for %d players.", minRoles+1))
	}
	return eligible[rng.IntN(len(eligible))].Clone(), nil
}

// AddSecret adds a secret location and persists the secret tier
func (c *Catalog) AddSecret(ctx context.Context, name string, roles []string) error {
	loc, err := normalize(name, roles)
	if err != nil {
		return err
	}
	loc.Tier = models.TierSecret

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.find(foldKey(loc.Name), true); ok {
		return apperr.New(apperr.CodeInvalidArgument, fmt.Sprintf("Location %q already exists.", existing.Name))
	}
	next := append(cloneAll(c.secret), loc)
	if err := c.persist(ctx, models.TierSecret, next); err != nil {
		return err
	}
	c.secret = next
	c.logger.Info("secret location added", zap.String("location", loc.Name), zap.Int("roles", len(loc.Roles)))
	return nil
}

// RemoveAny removes a location from whichever tier holds it and persists that tier
func (c *Catalog) RemoveAny(ctx context.Context, name string) error {
	key := foldKey(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tier := range []struct {
		name models.Tier
		locs *[]models.Location
	}{
		{models.TierPublic, &c.public},
		{models.TierSecret, &c.secret},
	} {
		for i, loc := range *tier.locs {
			if foldKey(loc.Name) != key {
				continue
			}
			next := make([]models.Location, 0, len(*tier.locs)-1)
			next = append(next, cloneAll((*tier.locs)[:i])...)
			next = append(next, cloneAll((*tier.locs)[i+1:])...)
			if err := c.persist(ctx, tier.name, next); err != nil {
				return err
			}
			*tier.locs = next
			c.logger.Info("location removed", zap.String("location", loc.Name), zap.String("tier", string(tier.name)))
			return nil
		}
	}
	return apperr.New(apperr.CodeLocationNotFound, fmt.Sprintf("No location called %q.", strings.TrimSpace(name)))
}

// persist writes one tier through the store (must be called with write lock held)
func (c *Catalog) persist(ctx context.Context, tier models.Tier, locations []models.Location) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, tier, locations); err != nil {
		c.logger.Error("catalog save failed", zap.String("tier", string(tier)), zap.Error(err))
		return apperr.Wrap(apperr.CodeIO, "save catalog", err)
	}
	return nil
}

// find looks a folded name up (must be called with lock held)
func (c *Catalog) find(key string, includeSecret bool) (models.Location, bool) {
	for _, loc := range c.public {
		if foldKey(loc.Name) == key {
			return loc, true
		}
	}
	if includeSecret {
		for _, loc := range c.secret {
			if foldKey(loc.Name) == key {
				return loc, true
			}
		}
	}
	return models.Location{}, false
}

func normalize(name string, roles []string) (models.Location, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return models.Location{}, apperr.New(apperr.CodeInvalidArgument, "A location needs a name.")
	}
	clean := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if strings.EqualFold(r, models.SpyRole) {
			return models.Location{}, apperr.New(apperr.CodeInvalidArgument, fmt.Sprintf("%q is reserved for the spy.", r))
		}
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		return models.Location{}, apperr.New(apperr.CodeInvalidArgument, fmt.Sprintf("Location %q needs at least one role.", name))
	}
	return models.Location{Name: name, Roles: clean}, nil
}

// foldKey is the comparison form of a location name. Casers are stateful, so one is built per call
func foldKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

func cloneAll(locs []models.Location) []models.Location {
	out := make([]models.Location, len(locs))
	for i, loc := range locs {
		out[i] = loc.Clone()
	}
	return out
}
