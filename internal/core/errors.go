package core

import (
	"errors"
	"fmt"
)

// Exit codes for the deck CLI.
const (
	ExitOK       = 0
	ExitRuntime  = 1
	ExitUsage    = 2
	ExitCapacity = 3
	ExitNotFound = 4
	ExitInvalid  = 5
)

// Kind classifies engine errors.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindCapacity
	KindMalformed
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindCapacity:
		return "capacity exceeded"
	case KindMalformed:
		return "malformed"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "internal"
	}
}

// Error is an engine error tagged with a Kind.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing playlist, bookmark file or directory.
func NotFound(op string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// Capacity reports a full fixed-size store.
func Capacity(op string, msg string) *Error {
	return &Error{Kind: KindCapacity, Op: op, Msg: msg}
}

// Malformed reports an unparseable record.
func Malformed(op string, msg string) *Error {
	return &Error{Kind: KindMalformed, Op: op, Msg: msg}
}

// InvalidArgument reports a contract violation by the caller.
func InvalidArgument(op string, msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: msg}
}

// IsKind reports whether err or anything it wraps is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// CLIError carries a user-visible message and exit code.
type CLIError struct {
	Code int
	Msg  string
	Err  error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapError creates a CLIError with an underlying error.
func WrapError(code int, msg string, err error) *CLIError {
	return &CLIError{Code: code, Msg: msg, Err: err}
}

// ExitCode returns the CLI exit code from error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		switch engineErr.Kind {
		case KindNotFound:
			return ExitNotFound
		case KindCapacity:
			return ExitCapacity
		case KindMalformed, KindInvalidArgument:
			return ExitInvalid
		}
	}
	return ExitRuntime
}
