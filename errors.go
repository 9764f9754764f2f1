package soxr

import (
	"errors"
	"fmt"
)

// Op classifies an Error by the operation that failed.
type Op int

const (
	// OpCreate marks failures while creating a session.
	OpCreate Op = iota + 1
	// OpProcess marks failures of an existing session.
	OpProcess
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpProcess:
		return "process"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Sentinel errors. ErrCreate and ErrProcess match any *Error of that
// operation; the rest are causes wrapped inside one.
var (
	ErrCreate      = errors.New("soxr: create failed")
	ErrProcess     = errors.New("soxr: process failed")
	ErrShape       = errors.New("soxr: malformed buffer")
	ErrClosed      = errors.New("session is closed")
	ErrDatatype    = errors.New("buffer datatype does not match the session")
	ErrInputFunc   = errors.New("input function reported failure")
	ErrInvalidSpec = errors.New("invalid specification")
)

// Error is a failure reported by the resampling engine. Msg carries the
// engine's diagnostic unchanged.
type Error struct {
	Op   Op     // operation class
	Func string // API function that failed
	Msg  string // engine diagnostic
	Err  error  // underlying cause, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("soxr: %s: %s (from %s)", e.Op, e.Msg, e.Func)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrCreate and ErrProcess against the operation.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCreate:
		return e.Op == OpCreate
	case ErrProcess:
		return e.Op == OpProcess
	default:
		return false
	}
}

// ShapeError reports a buffer whose layout does not fit the session's
// channel count. It is raised before the engine is touched.
type ShapeError struct {
	Func string
	Msg  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("soxr: %s (from %s)", e.Msg, e.Func)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

func createError(fn string, err error) *Error {
	return &Error{Op: OpCreate, Func: fn, Msg: err.Error(), Err: err}
}

func processError(fn string, err error) *Error {
	return &Error{Op: OpProcess, Func: fn, Msg: err.Error(), Err: err}
}

func shapeError(fn, format string, args ...any) *ShapeError {
	return &ShapeError{Func: fn, Msg: fmt.Sprintf(format, args...)}
}
