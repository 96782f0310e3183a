package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/spyfall-bot/internal/apperr"
	"github.com/aaronzipp/spyfall-bot/internal/catalog"
	"github.com/aaronzipp/spyfall-bot/internal/game"
	"github.com/aaronzipp/spyfall-bot/internal/models"
	"github.com/aaronzipp/spyfall-bot/internal/render"
	"github.com/aaronzipp/spyfall-bot/internal/store"
)

const group = "group-1"

type brokenStore struct{}

func (brokenStore) Load(context.Context) ([]models.Location, []models.Location, error) {
	return nil, nil, nil
}

func (brokenStore) Save(context.Context, models.Tier, []models.Location) error {
	return errors.New("disk full")
}

func newTestContext(t *testing.T, cs catalog.Store) *Context {
	t.Helper()
	c, err := catalog.New(
		[]models.Location{{
			Name:  "Hospital",
			Roles: []string{"Doctor", "Nurse", "Patient", "Surgeon", "Intern", "Therapist", "Visitor"},
		}},
		[]models.Location{{
			Name:  "Hogwarts",
			Roles: []string{"Headmaster", "Ghost", "Seeker", "Prefect", "Elf", "Keeper", "Auror"},
		}},
		cs, nil,
	)
	require.NoError(t, err)
	sessions := store.NewRegistry(func() string { return "game-1" })
	return NewContext(sessions, c, game.Locked(rand.New(rand.NewPCG(1, 2))), nil, "Open Sesame", "close sesame")
}

func say(h *Context, user, text string) []models.Directive {
	return h.HandleCommand(context.Background(), models.CommandEvent{
		Scope:      models.ScopeGroup,
		SessionID:  group,
		SenderID:   user,
		SenderName: "Name " + user,
		Text:       text,
	})
}

func joinPlayers(t *testing.T, h *Context, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		out := say(h, fmt.Sprintf("u%d", i), "join")
		require.Len(t, out, 1)
	}
}

func session(t *testing.T, h *Context) *models.Session {
	t.Helper()
	s, ok := h.Sessions.Get(group)
	require.True(t, ok)
	return s
}

func replyText(t *testing.T, out []models.Directive) string {
	t.Helper()
	require.Len(t, out, 1)
	assert.Equal(t, models.DirectiveReply, out[0].Kind)
	assert.Equal(t, group, out[0].SessionID)
	return out[0].Text
}

func assertConcluded(t *testing.T, h *Context, out []models.Directive) string {
	t.Helper()
	require.Len(t, out, 2)
	assert.Equal(t, models.DirectiveReply, out[0].Kind)
	assert.Equal(t, models.Leave(group), out[1])
	_, ok := h.Sessions.Get(group)
	assert.False(t, ok, "concluded session is dropped")
	return out[0].Text
}

func TestBotLifecycle(t *testing.T) {
	h := newTestContext(t, nil)

	out := h.HandleLifecycle(models.LifecycleEvent{Kind: models.BotJoined, SessionID: group})
	assert.Equal(t, []models.Directive{models.Reply(group, render.Greeting())}, out)
	assert.Equal(t, 1, h.Sessions.Len())

	out = h.HandleLifecycle(models.LifecycleEvent{Kind: models.BotLeft, SessionID: group})
	assert.Empty(t, out)
	assert.Equal(t, 0, h.Sessions.Len())

	out = h.HandleLifecycle(models.LifecycleEvent{Kind: models.BotLeft, SessionID: group})
	assert.Empty(t, out, "leaving an unknown group is quiet")
}

func TestInternalErrorsStayOutOfChat(t *testing.T) {
	h := newTestContext(t, nil)
	s := models.NewSession(group, "game-1")

	_, err := h.dispatch(context.Background(), s, models.CommandEvent{}, Command{Kind: CommandKind(99)}, h.Logger)
	require.ErrorIs(t, err, apperr.ErrInternal)
	assert.Empty(t, h.errorReply(group, err, h.Logger))
	assert.Empty(t, h.errorReply(group, errors.New("boom"), h.Logger))
	assert.Equal(t, []models.Directive{models.Reply(group, "Too late for magic now.")},
		h.errorReply(group, apperr.New(apperr.CodeWrongPhase, "Too late for magic now."), h.Logger))
}

func TestUnrecognizedTextIsSilent(t *testing.T) {
	h := newTestContext(t, nil)
	assert.Empty(t, say(h, "u1", "hello everyone"))
	assert.Empty(t, say(h, "u1", "Hospital"), "location names only count while the spy guesses")
}

func TestJoinTwiceReplies(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 1)

	text := replyText(t, say(h, "u1", "JOIN"))
	assert.Contains(t, text, "already player 1")
	assert.Len(t, session(t, h).Players, 1)
}

func TestStartNeedsEnoughPlayers(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 2)

	text := replyText(t, say(h, "u1", "start"))
	assert.Contains(t, text, "at least 3")
	assert.Equal(t, models.PhaseLobby, session(t, h).Phase)
}

func TestStartRequiresJoining(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)

	text := replyText(t, say(h, "stranger", "start"))
	assert.Contains(t, text, "Join the game")
}

func TestStartDealsRolesPrivately(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 4)

	out := say(h, "u2", "start")
	require.Len(t, out, 5)

	s := session(t, h)
	assert.Equal(t, models.PhaseInProgress, s.Phase)
	seen := map[string]bool{}
	for _, d := range out[:4] {
		require.Equal(t, models.DirectivePrivate, d.Kind)
		p, ok := s.Player(d.UserID)
		require.True(t, ok)
		seen[d.UserID] = true
		if p.IsSpy() {
			assert.Contains(t, d.Text, "SPY")
			assert.NotContains(t, d.Text, "Hospital")
		} else {
			assert.Contains(t, d.Text, "Hospital")
			assert.Contains(t, d.Text, p.Role)
		}
	}
	assert.Len(t, seen, 4)

	last := out[4]
	assert.Equal(t, models.DirectiveReply, last.Kind)
	assert.NotContains(t, last.Text, "Hospital")
	first, ok := s.PlayerByNumber(s.FirstQuestioner)
	require.True(t, ok)
	assert.Contains(t, last.Text, first.Name+" asks the first question")

	text := replyText(t, say(h, "u5", "join"))
	assert.Contains(t, text, "already started")
}

func TestSpyCaughtAndGuessesRight(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)
	require.Len(t, say(h, "u1", "start"), 4)

	s := session(t, h)
	spy, ok := s.Spy()
	require.True(t, ok)
	for _, p := range s.Players {
		text := replyText(t, say(h, p.UserID, fmt.Sprintf("vote %d", spy.Number)))
		assert.Contains(t, text, "voted for")
	}

	text := replyText(t, say(h, "u1", "vote end"))
	assert.Contains(t, text, "IS the spy")
	assert.Equal(t, models.PhaseSpyGuessing, s.Phase)

	for _, p := range s.Players {
		if !p.IsSpy() {
			assert.Empty(t, say(h, p.UserID, "Hospital"), "only the spy may guess")
		}
	}
	assert.Empty(t, say(h, spy.UserID, "not a place"))

	text = assertConcluded(t, h, say(h, spy.UserID, "  hospital "))
	assert.Contains(t, text, "Spy wins")
	assert.Equal(t, models.OutcomeSpyWinsByGuess, s.Outcome)
}

func TestSpyCaughtAndGuessesWrong(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)
	say(h, "u1", "alohamora")
	require.Len(t, say(h, "u1", "start"), 4)

	s := session(t, h)
	spy, _ := s.Spy()
	for _, p := range s.Players {
		say(h, p.UserID, fmt.Sprintf("vote %d", spy.Number))
	}
	say(h, "u2", "vote end")

	guess := "Hogwarts"
	if s.Location.Name == guess {
		guess = "Hospital"
	}
	text := assertConcluded(t, h, say(h, spy.UserID, guess))
	assert.Contains(t, text, "team wins")
	assert.Equal(t, models.OutcomeTeamWins, s.Outcome)
}

func TestInnocentVotedOut(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)
	say(h, "u1", "start")

	s := session(t, h)
	var innocent *models.Player
	for _, p := range s.Players {
		if !p.IsSpy() {
			innocent = p
			break
		}
	}
	for _, p := range s.Players {
		say(h, p.UserID, fmt.Sprintf("vote %d", innocent.Number))
	}

	text := assertConcluded(t, h, say(h, "u3", "vote end"))
	assert.Contains(t, text, "is innocent")
	assert.Equal(t, models.OutcomeSpyWinsByEvasion, s.Outcome)

	// the next message starts over in a fresh lobby
	joinPlayers(t, h, 1)
	assert.Equal(t, models.PhaseLobby, session(t, h).Phase)
}

func TestVoteErrors(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)

	assert.Contains(t, replyText(t, say(h, "u1", "vote 2")), "only open while a game is running")

	say(h, "u1", "start")
	assert.Contains(t, replyText(t, say(h, "u1", "vote Bob")), "player number")
	assert.Contains(t, replyText(t, say(h, "u1", "vote 9")), "no player 9")
	assert.Contains(t, replyText(t, say(h, "stranger", "vote 1")), "not playing")

	assert.Contains(t, replyText(t, say(h, "stranger", "vote abc")), "not playing")

	say(h, "u1", "vote 2")
	assert.Contains(t, replyText(t, say(h, "u1", "vote 3")), "already voted")
	assert.Contains(t, replyText(t, say(h, "u1", "vote abc")), "already voted")
	assert.Equal(t, 2, session(t, h).Players[0].VotedFor)
}

func TestQuitConcludesAnyPhase(t *testing.T) {
	h := newTestContext(t, nil)
	joinPlayers(t, h, 3)
	say(h, "u1", "start")

	text := assertConcluded(t, h, say(h, "u2", "quit"))
	assert.Contains(t, text, "abandoned")
}

func TestPlayersAndLocations(t *testing.T) {
	h := newTestContext(t, nil)
	assert.Contains(t, replyText(t, say(h, "u1", "players")), "Nobody has joined")

	joinPlayers(t, h, 2)
	text := replyText(t, say(h, "u1", "players"))
	assert.Contains(t, text, "1. Name u1")
	assert.Contains(t, text, "2. Name u2")

	text = replyText(t, say(h, "u1", "locations"))
	assert.Contains(t, text, "Hospital")
	assert.NotContains(t, text, "Hogwarts")

	replyText(t, say(h, "u1", "alohamora"))
	text = replyText(t, say(h, "u1", "locations"))
	assert.Contains(t, text, "Hogwarts")
}

func TestDirectMessages(t *testing.T) {
	h := newTestContext(t, nil)
	dm := func(text string) []models.Directive {
		return h.HandleCommand(context.Background(), models.CommandEvent{
			Scope: models.ScopeDirect, SessionID: "u1", SenderID: "u1", Text: text,
		})
	}

	assert.Equal(t, []models.Directive{models.Reply("u1", render.Rules())}, dm("rules"))
	assert.Equal(t, []models.Directive{models.Reply("u1", render.DirectHint())}, dm("join"))
	assert.Empty(t, dm("hi"))
	assert.Equal(t, 0, h.Sessions.Len(), "direct messages never create sessions")
}

func TestDeveloperMode(t *testing.T) {
	h := newTestContext(t, nil)

	assert.Empty(t, say(h, "u1", "print catalog"))
	assert.Contains(t, replyText(t, say(h, "u1", "open   SESAME")), "Developer mode on")
	assert.True(t, session(t, h).DeveloperMode)
	assert.Contains(t, replyText(t, say(h, "u1", "commands")), "add location")

	text := replyText(t, say(h, "u2", "add location Moon Base: Astronaut, Mission Control"))
	assert.Contains(t, text, "Moon Base")
	_, ok := h.Catalog.Match("moon base", true)
	assert.True(t, ok)

	assert.Contains(t, replyText(t, say(h, "u1", "print catalog")), "Moon Base: Astronaut, Mission Control")
	assert.Contains(t, replyText(t, say(h, "u1", "add location Moon Base: Pilot")), "already exists")
	assert.Contains(t, replyText(t, say(h, "u1", "add location Crater")), "at least one role")

	assert.Contains(t, replyText(t, say(h, "u1", "delete location moon base")), "Deleted")
	_, ok = h.Catalog.Match("Moon Base", true)
	assert.False(t, ok)
	assert.Contains(t, replyText(t, say(h, "u1", "delete location Atlantis")), "No location")

	assert.Contains(t, replyText(t, say(h, "u1", "close sesame")), "Developer mode off")
	assert.Empty(t, say(h, "u1", "print catalog"))
}

func TestStorageFailureIsReported(t *testing.T) {
	h := newTestContext(t, brokenStore{})
	say(h, "u1", "open sesame")

	text := replyText(t, say(h, "u1", "add location Moon Base: Astronaut"))
	assert.Equal(t, render.StorageFailure(), text)
	_, ok := h.Catalog.Match("Moon Base", true)
	assert.False(t, ok, "failed save leaves the catalog unchanged")
}

func TestSpyCanGuessLocationNamedLikeCommand(t *testing.T) {
	h := newTestContext(t, nil)
	// one role is too few to be drawn for three players
	require.NoError(t, h.Catalog.AddSecret(context.Background(), "Players", []string{"Coach"}))
	joinPlayers(t, h, 3)
	say(h, "u1", "alohamora")
	require.Len(t, say(h, "u1", "start"), 4)

	s := session(t, h)
	spy, _ := s.Spy()
	for _, p := range s.Players {
		say(h, p.UserID, fmt.Sprintf("vote %d", spy.Number))
	}
	say(h, "u1", "vote end")
	require.Equal(t, models.PhaseSpyGuessing, s.Phase)

	for _, p := range s.Players {
		if !p.IsSpy() {
			assert.Contains(t, replyText(t, say(h, p.UserID, "players")), "Players (3/")
		}
	}

	text := assertConcluded(t, h, say(h, spy.UserID, "PLAYERS"))
	assert.Contains(t, text, "team wins")
	assert.Equal(t, models.OutcomeTeamWins, s.Outcome)
}
