package game

import "fmt"

// Code is a machine-readable error reason
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeAlreadySolved       Code = "already_solved"
	CodePreconditionUnmet   Code = "precondition_unmet"
	CodeInventoryFull       Code = "inventory_full"
	CodeInvalidInput        Code = "invalid_input"
	CodeUnknownAction       Code = "unknown_action"
	CodeDeserialization     Code = "deserialization"
	CodeIncompatibleVersion Code = "incompatible_version"
	CodeStorage             Code = "storage"
	CodeSaveInFlight        Code = "save_in_flight"
	CodeInvalidSlot         Code = "invalid_slot"
	CodeEmptySlot           Code = "empty_slot"
	CodeGameNotStarted      Code = "game_not_started"
)

// Error is the typed result for every recoverable core failure
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Short player-facing message
	Metadata map[string]string // Unmet requirement or offending value
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is comparisons
var (
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadySolved       = &Error{Code: CodeAlreadySolved, Message: "already solved"}
	ErrPreconditionUnmet   = &Error{Code: CodePreconditionUnmet, Message: "precondition unmet"}
	ErrInventoryFull       = &Error{Code: CodeInventoryFull, Message: "inventory full"}
	ErrInvalidInput        = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrUnknownAction       = &Error{Code: CodeUnknownAction, Message: "unknown action"}
	ErrDeserialization     = &Error{Code: CodeDeserialization, Message: "deserialization failed"}
	ErrIncompatibleVersion = &Error{Code: CodeIncompatibleVersion, Message: "incompatible version"}
	ErrStorage             = &Error{Code: CodeStorage, Message: "storage failure"}
	ErrSaveInFlight        = &Error{Code: CodeSaveInFlight, Message: "save in progress"}
	ErrInvalidSlot         = &Error{Code: CodeInvalidSlot, Message: "invalid slot"}
	ErrEmptySlot           = &Error{Code: CodeEmptySlot, Message: "empty slot"}
	ErrGameNotStarted      = &Error{Code: CodeGameNotStarted, Message: "game not started"}
)

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) with(key, value string) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}
