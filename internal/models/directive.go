package models

// Scope tells whether an event came from a group chat or a direct message
type Scope int

const (
	ScopeGroup Scope = iota
	ScopeDirect
)

// CommandEvent is one inbound chat message, already resolved by an adapter
type CommandEvent struct {
	Scope      Scope
	SessionID  string // group id for ScopeGroup, user id for ScopeDirect
	SenderID   string
	SenderName string
	Text       string
}

// LifecycleKind identifies bot membership changes
type LifecycleKind int

const (
	BotJoined LifecycleKind = iota
	BotLeft
)

// LifecycleEvent reports the bot being added to or removed from a group
type LifecycleEvent struct {
	Kind      LifecycleKind
	SessionID string
}

// DirectiveKind identifies what an adapter should do with a directive
type DirectiveKind int

const (
	DirectiveReply DirectiveKind = iota
	DirectivePrivate
	DirectiveLeave
)

// Directive is one outbound instruction for a chat adapter
type Directive struct {
	Kind      DirectiveKind
	SessionID string
	UserID    string // DirectivePrivate only
	Text      string
}

// Reply builds a message visible to the whole session
func Reply(sessionID, text string) Directive {
	return Directive{Kind: DirectiveReply, SessionID: sessionID, Text: text}
}

// Private builds a direct message to one player
func Private(sessionID, userID, text string) Directive {
	return Directive{Kind: DirectivePrivate, SessionID: sessionID, UserID: userID, Text: text}
}

// Leave asks the adapter to remove the bot from the session's chat
func Leave(sessionID string) Directive {
	return Directive{Kind: DirectiveLeave, SessionID: sessionID}
}
