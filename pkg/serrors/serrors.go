// Package serrors defines semantic error kinds used across lemmony. Fatal kinds
// abort a run, soft kinds are logged and the run carries on.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a semantic error category. Kinds are sentinels created with NewKind.
type Kind interface {
	error
	isKind()
}

// kind is the unexported sentinel behind every Kind.
type kind struct{ s string }

// Error returns the kind name.
func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind.
func NewKind(name string) Kind { return kind{s: name} }

// Kinds shared by the HTTP clients and the synchronizer. The first group
// mirrors HTTP status classes and is produced by FromStatus.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing or rejected authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden indicates the session is valid but not allowed to perform the operation.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates the server rejected the request data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict reported by the server.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates a server error without a more specific kind.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the server or a gateway timed out.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the server or a gateway is temporarily unavailable.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewKind("RATE_LIMITED")

	// ErrInvalidConfig indicates missing or invalid arguments or credentials.
	ErrInvalidConfig = NewKind("INVALID_CONFIG")
	// ErrUnexpectedResponse indicates a required API call answered with a status
	// or body shape the caller cannot work with.
	ErrUnexpectedResponse = NewKind("UNEXPECTED_RESPONSE")
	// ErrDiscoveryFailed indicates a discovery search call did not succeed. It is soft.
	ErrDiscoveryFailed = NewKind("DISCOVERY_FAILED")
)

// FromStatus maps an HTTP status code to the closest semantic kind. Codes below
// 400 and unknown 4xx codes map to ErrUnexpectedResponse.
func FromStatus(code int) Kind {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusServiceUnavailable || code == http.StatusBadGateway:
		return ErrUnavailable
	case code == http.StatusGatewayTimeout || code == http.StatusRequestTimeout:
		return ErrTimeout
	case code >= 500:
		return ErrInternal
	default:
		return ErrUnexpectedResponse
	}
}

// IsSoft reports whether err only warrants a warning. Only ErrDiscoveryFailed is soft.
func IsSoft(err error) bool {
	return err != nil && errors.Is(err, ErrDiscoveryFailed)
}

// Error carries a kind, an optional cause and an optional message.
// errors.Is and errors.As match against both the kind and the cause.
//
// Error() renders "<msg>: <cause>", falling back to whichever part is set and
// finally to the kind name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With builds an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap builds an error of kind k around err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly builds an error carrying only its kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

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

// Unwrap returns the wrapped cause, letting errors.Unwrap, Is and As walk the chain.
func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind sentinel or the wrapped cause.
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

// As assigns to target from the kind sentinel or the wrapped cause.
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

// Kind returns the semantic kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the arbitrary message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
