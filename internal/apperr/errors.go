package apperr

import "errors"

// Error is the domain error type
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Text safe to show in the chat
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from an error chain, CodeUnknown if none
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Sentinels for errors.Is checks
var (
	ErrInvalidArgument     = New(CodeInvalidArgument, "invalid argument")
	ErrInvalidTarget       = New(CodeInvalidTarget, "invalid vote target")
	ErrWrongPhase          = New(CodeWrongPhase, "not allowed right now")
	ErrInsufficientPlayers = New(CodeInsufficientPlayers, "not enough players")
	ErrInsufficientRoles   = New(CodeInsufficientRoles, "not enough roles")
	ErrRosterFull          = New(CodeRosterFull, "roster is full")
	ErrAlreadyJoined       = New(CodeAlreadyJoined, "already joined")
	ErrAlreadyVoted        = New(CodeAlreadyVoted, "already voted")
	ErrNotJoined           = New(CodeNotJoined, "not in this game")
	ErrLocationNotFound    = New(CodeLocationNotFound, "location not found")
	ErrSessionNotFound     = New(CodeSessionNotFound, "session not found")
	ErrIO                  = New(CodeIO, "storage failure")
	ErrInternal            = New(CodeInternal, "internal error")
)
