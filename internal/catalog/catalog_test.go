package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/models"
)

type memStore struct {
	saves   map[models.Tier][]models.Location
	saveErr error
}

func (m *memStore) Load(context.Context) ([]models.Location, []models.Location, error) {
	return m.saves[models.TierPublic], m.saves[models.TierSecret], nil
}

func (m *memStore) Save(_ context.Context, tier models.Tier, locs []models.Location) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.saves == nil {
		m.saves = make(map[models.Tier][]models.Location)
	}
	m.saves[tier] = locs
	return nil
}

func testCatalog(t *testing.T, store Store) *Catalog {
	t.Helper()
	c, err := New(
		[]models.Location{
			{Name: "Beach", Roles: []string{"Lifeguard", "Thief", "Surfer"}},
			{Name: "Bank", Roles: []string{"Teller", "Robber"}},
		},
		[]models.Location{
			{Name: "Hogwarts", Roles: []string{"Headmaster", "Ghost", "Seeker"}},
		},
		store, nil,
	)
	require.NoError(t, err)
	return c
}

func TestLookupIgnoresCase(t *testing.T) {
	c := testCatalog(t, nil)

	loc, err := c.Lookup("  bEaCh ")
	require.NoError(t, err)
	assert.Equal(t, "Beach", loc.Name)
	assert.Equal(t, models.TierPublic, loc.Tier)

	loc, err = c.Lookup("HOGWARTS")
	require.NoError(t, err)
	assert.Equal(t, models.TierSecret, loc.Tier)

	_, err = c.Lookup("Moon")
	assert.ErrorIs(t, err, apperr.ErrLocationNotFound)
}

func TestListNames(t *testing.T) {
	c := testCatalog(t, nil)
	assert.Equal(t, []string{"Beach", "Bank"}, c.ListNames(false))
	assert.Equal(t, []string{"Beach", "Bank", "Hogwarts"}, c.ListNames(true))
}

func TestMatchRespectsSecretTier(t *testing.T) {
	c := testCatalog(t, nil)
	_, ok := c.Match("hogwarts", false)
	assert.False(t, ok)
	loc, ok := c.Match("hogwarts", true)
	require.True(t, ok)
	assert.Equal(t, "Hogwarts", loc.Name)
}

func TestAddSecretRoundTrip(t *testing.T) {
	store := &memStore{}
	c := testCatalog(t, store)
	ctx := context.Background()

	require.NoError(t, c.AddSecret(ctx, "Moon Base", []string{"Astronaut", " ", "Engineer"}))
	loc, err := c.Lookup("moon base")
	require.NoError(t, err)
	assert.Equal(t, "Moon Base", loc.Name)
	assert.Equal(t, []string{"Astronaut", "Engineer"}, loc.Roles)
	assert.Equal(t, models.TierSecret, loc.Tier)
	require.Len(t, store.saves[models.TierSecret], 2)

	require.NoError(t, c.RemoveAny(ctx, "MOON BASE"))
	_, err = c.Lookup("Moon Base")
	assert.ErrorIs(t, err, apperr.ErrLocationNotFound)
}

func TestAddSecretRejectsInvalid(t *testing.T) {
	c := testCatalog(t, &memStore{})
	ctx := context.Background()

	err := c.AddSecret(ctx, "Moon", nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	err = c.AddSecret(ctx, "beach", []string{"Crab"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	err = c.AddSecret(ctx, "hogwarts", []string{"Crab"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestRemoveAnyPublicTier(t *testing.T) {
	store := &memStore{}
	c := testCatalog(t, store)
	require.NoError(t, c.RemoveAny(context.Background(), "bank"))
	assert.Equal(t, []string{"Beach"}, c.ListNames(false))
	require.Len(t, store.saves[models.TierPublic], 1)

	err := c.RemoveAny(context.Background(), "bank")
	assert.ErrorIs(t, err, apperr.ErrLocationNotFound)
}

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	c := testCatalog(t, store)
	ctx := context.Background()

	err := c.AddSecret(ctx, "Moon", []string{"Astronaut"})
	assert.ErrorIs(t, err, apperr.ErrIO)
	_, err = c.Lookup("Moon")
	assert.ErrorIs(t, err, apperr.ErrLocationNotFound)

	err = c.RemoveAny(ctx, "Beach")
	assert.ErrorIs(t, err, apperr.ErrIO)
	_, err = c.Lookup("Beach")
	assert.NoError(t, err)
}

func TestPickHonorsRoleCountAndTier(t *testing.T) {
	c := testCatalog(t, nil)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		loc, err := c.Pick(rng, false, 3)
		require.NoError(t, err)
		assert.Equal(t, "Beach", loc.Name)
	}

	seen := map[string]bool{}
	for range 200 {
		loc, err := c.Pick(rng, true, 3)
		require.NoError(t, err)
		seen[loc.Name] = true
	}
	assert.Equal(t, map[string]bool{"Beach": true, "Hogwarts": true}, seen)

	_, err := c.Pick(rng, true, 4)
	assert.ErrorIs(t, err, apperr.ErrInsufficientRoles)
}

func TestNewRejectsDuplicatesAcrossTiers(t *testing.T) {
	_, err := New(
		[]models.Location{{Name: "Beach", Roles: []string{"A"}}},
		[]models.Location{{Name: "BEACH", Roles: []string{"B"}}},
		nil, nil,
	)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := testCatalog(t, nil)
	public, _ := c.Snapshot()
	public[0].Roles[0] = "changed"
	loc, err := c.Lookup("Beach")
	require.NoError(t, err)
	assert.Equal(t, "Lifeguard", loc.Roles[0])
}

func TestAddSecretRejectsSpyRole(t *testing.T) {
	c := testCatalog(t, &memStore{})
	err := c.AddSecret(context.Background(), "Moon", []string{"Astronaut", "spy"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
