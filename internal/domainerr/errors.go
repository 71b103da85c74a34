// Package domainerr defines the semantic error kinds shared across the
// monitoring pipeline. Every public operation returns either a well-formed
// result or an error wrapping exactly one of these kinds, so callers can
// branch with errors.Is instead of parsing messages.
package domainerr

import "errors"

// Kind identifies the category of a domain error.
type Kind string

const (
	KindValidation           Kind = "validation_error"
	KindInsufficientData     Kind = "insufficient_data"
	KindInsufficientCoverage Kind = "insufficient_coverage"
	KindInsufficientTraining Kind = "insufficient_training"
	KindInvalidTransition    Kind = "invalid_transition"
	KindNotFound             Kind = "not_found"
	KindStoreUnavailable     Kind = "store_unavailable"
	KindInternal             Kind = "internal"
)

// Sentinels usable with errors.Is. Wrap with fmt.Errorf("...: %w", ErrX) to
// attach a specific message while keeping the kind matchable.
var (
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation error"}
	ErrInsufficientData     = &Error{Kind: KindInsufficientData, Message: "insufficient data"}
	ErrInsufficientCoverage = &Error{Kind: KindInsufficientCoverage, Message: "insufficient coverage"}
	ErrInsufficientTraining = &Error{Kind: KindInsufficientTraining, Message: "insufficient training data"}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition, Message: "invalid lifecycle transition"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrStoreUnavailable     = &Error{Kind: KindStoreUnavailable, Message: "store unavailable"}
	ErrInternal             = &Error{Kind: KindInternal, Message: "internal error"}
)

// Error is a semantic, typed error carrying a Kind plus an actionable
// message and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is implements errors.Is matching by Kind, so New(KindValidation, "...")
// matches errors.Is(err, ErrValidation) regardless of message/cause.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}
	return false
}

// New builds a new Error of the given kind with a formatted message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a new Error of the given kind, wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the Kind of err if it (or something it wraps) is a *Error,
// and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
