// Package domainerrors provides coded errors for the allocation domain.
//
// Services and handlers construct errors with New or Wrap and inspect them
// with HasCode. Codes are the contract between layers: stores return
// sentinel errors, services translate them into coded errors, and the HTTP
// layer maps codes onto status lines without leaking internal detail.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Business codes are locally recoverable and
// propagate to the caller as typed results; CodeUnavailable marks an
// infrastructure fault the caller should retry with backoff.
type Code string

const (
	// Business rule failures.
	CodeInvalidInput   Code = "invalid_input"
	CodeNotFound       Code = "not_found"
	CodeDuplicateEntry Code = "duplicate_entry"
	CodeNotEligible    Code = "not_eligible"
	CodeInvalidState   Code = "invalid_state"
	CodeAlreadyPending Code = "already_pending"
	CodeNoCandidate    Code = "no_candidate"

	// Transport/boundary failures.
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"

	// Infrastructure failures. Retriable, never a business outcome.
	CodeInternal    Code = "internal_error"
	CodeUnavailable Code = "unavailable"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two coded errors by code alone, so callers can
// compare against New(code, "") templates.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As traversal.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf extracts the code from err's chain, defaulting to CodeInternal for
// uncoded errors so transport mapping never guesses at semantics.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
