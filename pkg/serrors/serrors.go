// Package serrors defines semantic error kinds and a wrapper that carries a
// kind, an optional cause, a message and an optional source position.
package serrors

import (
	"errors"
	"fmt"
	"go/token"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and can be used with errors.Is/As through the
// serrors.Error wrapper.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrMalformedInput indicates an invocation whose input is not a single
	// string literal, or a directive that cannot be parsed.
	ErrMalformedInput = NewKind("MALFORMED_INPUT")
	// ErrEmbeddedNull indicates a literal whose bytes contain a null byte.
	ErrEmbeddedNull = NewKind("EMBEDDED_NULL")
	// ErrDuplicateName indicates two directives declaring the same constant.
	ErrDuplicateName = NewKind("DUPLICATE_NAME")
	// ErrStale indicates a generated file that no longer matches its sources.
	ErrStale = NewKind("STALE")
	// ErrInternal indicates a failure unrelated to the user's input.
	ErrInternal = NewKind("INTERNAL")
)

// Error represents a semantic error carrying a kind (sentinel), an optional
// wrapped error, an optional message and an optional source position. It
// fully supports errors.Is/errors.As and unwrapping.
//
// Error string formatting:
//   - If both msg and err are set: "<msg>: <err>"
//   - If only msg is set: "<msg>"
//   - If only err is set: "<err>"
//   - If neither set: the kind's Error() string.
//
// The position is never part of Error(); use Positioned to render it.
type Error struct {
	kind Kind
	err  error
	msg  string
	pos  token.Position
}

// With constructs a new semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a new semantic error with the given kind wrapping err. An
// empty msgFmt leaves the cause's message as the full error string.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	e := &Error{kind: k, err: err}
	if msgFmt != "" {
		e.msg = fmt.Sprintf(msgFmt, args...)
	}

	return e
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// At attaches a source position to e and returns it.
func (e *Error) At(pos token.Position) *Error {
	e.pos = pos

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped error.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As enables type assertions against either the kind sentinel or the
// wrapped error.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }

// Pos returns the source position, which is invalid when none was attached.
func (e *Error) Pos() token.Position { return e.pos }

// Positioned renders err the way the Go toolchain renders diagnostics,
// "file:line:col: message", when err carries a valid position. Other errors
// are rendered as is.
func Positioned(err error) string {
	var e *Error
	if errors.As(err, &e) && e.pos.IsValid() {
		return e.pos.String() + ": " + e.Error()
	}

	return err.Error()
}
