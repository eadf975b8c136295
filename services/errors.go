package services

import (
	"errors"
	"fmt"
)

// Kind classifies service errors. The gateway maps each kind to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindReference
	KindMissingActor
	KindUnauthorized
	KindInvalidCode
	KindForbidden
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	case KindReference:
		return "ReferenceError"
	case KindMissingActor:
		return "MissingActorError"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidCode:
		return "InvalidCode"
	case KindForbidden:
		return "Forbidden"
	case KindStorage:
		return "StorageError"
	}
	return "Unknown"
}

// Error is the typed error every service returns. Message is safe to show
// to callers; Err carries the underlying cause for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrReference    = &Error{Kind: KindReference, Message: "referenced record does not exist"}
	ErrMissingActor = &Error{Kind: KindMissingActor, Message: "userId is required"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrInvalidCode  = &Error{Kind: KindInvalidCode, Message: "invalid verification code"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "access denied"}
	ErrStorage      = &Error{Kind: KindStorage, Message: "internal server error"}
)

// KindOf returns the kind of err, or KindStorage for anything untyped.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func storageError(op string, err error) error {
	return &Error{Kind: KindStorage, Message: "internal server error", Err: fmt.Errorf("%s: %w", op, err)}
}
