package handlers

import (
	"strconv"
	"strings"
)

// CommandKind classifies one chat message
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdJoin
	CmdStart
	CmdQuit
	CmdPlayers
	CmdLocations
	CmdRules
	CmdCommands
	CmdVote
	CmdVoteEnd
	CmdGuess
	CmdUnlock
	CmdDevToggle
	CmdDevExit
	CmdAddLocation
	CmdDeleteLocation
	CmdPrintCatalog
)

var commandNames = map[CommandKind]string{
	CmdNone:           "none",
	CmdJoin:           "join",
	CmdStart:          "start",
	CmdQuit:           "quit",
	CmdPlayers:        "players",
	CmdLocations:      "locations",
	CmdRules:          "rules",
	CmdCommands:       "commands",
	CmdVote:           "vote",
	CmdVoteEnd:        "vote end",
	CmdGuess:          "guess",
	CmdUnlock:         "alohamora",
	CmdDevToggle:      "developer toggle",
	CmdDevExit:        "developer exit",
	CmdAddLocation:    "add location",
	CmdDeleteLocation: "delete location",
	CmdPrintCatalog:   "print catalog",
}

func (k CommandKind) String() string {
	return commandNames[k]
}

var keywords = map[string]CommandKind{
	"join":      CmdJoin,
	"start":     CmdStart,
	"quit":      CmdQuit,
	"players":   CmdPlayers,
	"locations": CmdLocations,
	"rules":     CmdRules,
	"commands":  CmdCommands,
	"vote end":  CmdVoteEnd,
	"alohamora": CmdUnlock,
}

const (
	votePrefix           = "vote "
	addLocationPrefix    = "add location "
	deleteLocationPrefix = "delete location "
	printCatalog         = "print catalog"
)

// Command is a classified message. Arguments keep the sender's casing
type Command struct {
	Kind   CommandKind
	Target int    // CmdVote; 0 when the argument is not a number
	Arg    string // raw argument text
	Roles  []string
}

// ParseOptions carries the per-session switches that change classification
type ParseOptions struct {
	DeveloperMode bool
	Passphrase    string // normalized; empty disables developer mode
	ExitPhrase    string // normalized
}

// Normalize trims, lowercases and collapses inner whitespace
func Normalize(text string) string {
	return strings.ToLower(collapse(text))
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Parse classifies text. Location guesses are not recognized here because
// they depend on the session's phase and the catalog
func Parse(text string, opts ParseOptions) Command {
	norm := Normalize(text)
	raw := collapse(text)
	if norm == "" {
		return Command{}
	}

	if opts.Passphrase != "" && norm == opts.Passphrase {
		return Command{Kind: CmdDevToggle}
	}
	if opts.DeveloperMode && opts.ExitPhrase != "" && norm == opts.ExitPhrase {
		return Command{Kind: CmdDevExit}
	}

	if kind, ok := keywords[norm]; ok {
		return Command{Kind: kind}
	}

	if arg, ok := cutPrefixFold(raw, votePrefix); ok {
		n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
		if err != nil || n < 1 {
			n = 0
		}
		return Command{Kind: CmdVote, Target: n, Arg: arg}
	}

	if !opts.DeveloperMode {
		return Command{}
	}
	if norm == printCatalog {
		return Command{Kind: CmdPrintCatalog}
	}
	if arg, ok := cutPrefixFold(raw, addLocationPrefix); ok {
		name, roleList, _ := strings.Cut(arg, ":")
		var roles []string
		for _, r := range strings.Split(roleList, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
		return Command{Kind: CmdAddLocation, Arg: strings.TrimSpace(name), Roles: roles}
	}
	if arg, ok := cutPrefixFold(raw, deleteLocationPrefix); ok {
		return Command{Kind: CmdDeleteLocation, Arg: arg}
	}
	return Command{}
}

// cutPrefixFold is strings.CutPrefix ignoring ASCII case
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	rest := strings.TrimSpace(s[len(prefix):])
	if rest == "" {
		return "", false
	}
	return rest, true
}
