package domain

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindStore
)

// Error is the failure type returned by the user repository. Message is the
// single line surfaced to API callers; Err keeps the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

func NewNotFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
}

func NewStoreError(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

var (
	// ErrUserNotFound is returned by UserStore implementations when no
	// document matches the given id or username.
	ErrUserNotFound = errors.New("user not found")

	ErrUsernameTaken = errors.New("username already taken")
	ErrNoUserID      = errors.New("no user id specified")
	ErrInvalidFrom   = errors.New("invalid from date")
	ErrInvalidTo     = errors.New("invalid to date")
)

// KindOf reports the kind of err, or zero if err is not a *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
