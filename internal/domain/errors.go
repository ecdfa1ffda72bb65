package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfStock   = errors.New("out of stock")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrConflict     = errors.New("conflict")
)

// Error is a user-facing failure. Error() returns the message shown to the
// client; errors.Is matches against Kind.
type Error struct {
	Kind error
	Msg  string
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}
