// Package server holds the error type shared by the service and
// transport layers, so handlers can map service failures to http status
// codes without inspecting error strings.
package server

import "fmt"

type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrInternalServerError
	ErrNotFound
	ErrBadParamInput
)

type Error struct {
	orig error
	kind ErrorKind
	msg  string
}

// WrapErrorf wraps orig with a kind and a caller facing message.
func WrapErrorf(orig error, kind ErrorKind, format string, a ...interface{}) error {
	return &Error{
		orig: orig,
		kind: kind,
		msg:  fmt.Sprintf(format, a...),
	}
}

// NewErrorf builds a kinded error with no underlying cause.
func NewErrorf(kind ErrorKind, format string, a ...interface{}) error {
	return WrapErrorf(nil, kind, format, a...)
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Kind() ErrorKind {
	return e.kind
}
