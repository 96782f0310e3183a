// Package apperr provides the game's domain errors and their classification
package apperr

// Code is a machine-readable error code
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidTarget   Code = "INVALID_TARGET"

	// State errors
	CodeWrongPhase          Code = "WRONG_PHASE"
	CodeInsufficientPlayers Code = "INSUFFICIENT_PLAYERS"
	CodeInsufficientRoles   Code = "INSUFFICIENT_ROLES"
	CodeRosterFull          Code = "ROSTER_FULL"
	CodeAlreadyJoined       Code = "ALREADY_JOINED"
	CodeAlreadyVoted        Code = "ALREADY_VOTED"
	CodeNotJoined           Code = "NOT_JOINED"

	// Lookup errors
	CodeLocationNotFound Code = "LOCATION_NOT_FOUND"
	CodeSessionNotFound  Code = "SESSION_NOT_FOUND"

	// Storage errors
	CodeIO Code = "IO"

	// Invariant violations
	CodeInternal Code = "INTERNAL"
)

// Kind groups codes by how they are reported back to a chat
type Kind int

const (
	KindValidation Kind = iota
	KindState
	KindNotFound
	KindIO
	KindInternal
)

// Kind maps the code to its reporting class
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidArgument, CodeInvalidTarget:
		return KindValidation
	case CodeWrongPhase, CodeInsufficientPlayers, CodeInsufficientRoles,
		CodeRosterFull, CodeAlreadyJoined, CodeAlreadyVoted, CodeNotJoined:
		return KindState
	case CodeLocationNotFound, CodeSessionNotFound:
		return KindNotFound
	case CodeIO:
		return KindIO
	default:
		return KindInternal
	}
}
