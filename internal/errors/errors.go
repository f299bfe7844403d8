// Package errors defines the domain error taxonomy shared by every endpoint.
// Provider and store failures are mapped into a DomainError at the boundary
// where they occur so that handlers only ever see one of the kinds below.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by what the caller should do about it.
type Kind string

const (
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindNotFound            Kind = "NOT_FOUND"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindSignatureInvalid    Kind = "SIGNATURE_INVALID"
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	KindConfiguration       Kind = "CONFIGURATION_ERROR"
	KindInternal            Kind = "INTERNAL"
)

// DomainError carries a kind, a stable code and a message that is safe to
// show to the caller. Err keeps the original cause for logs.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code. A kind sentinel (code equal to its kind) matches every
// error of that kind, so errors.Is(err, ErrNotFound) holds for ErrAccountNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == string(t.Kind) {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code
}

// New builds a DomainError with an explicit code.
func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Wrap attaches cause to a new DomainError of the given kind.
func Wrap(kind Kind, message string, cause error) *DomainError {
	return &DomainError{Kind: kind, Code: string(kind), Message: message, Err: cause}
}

// WithCause returns a copy of sentinel carrying cause, keeping its code.
func WithCause(sentinel *DomainError, cause error) *DomainError {
	return &DomainError{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: cause}
}

func InvalidArgument(message string) *DomainError {
	return New(KindInvalidArgument, string(KindInvalidArgument), message)
}

func NotFound(message string) *DomainError {
	return New(KindNotFound, string(KindNotFound), message)
}

func UpstreamUnavailable(message string, cause error) *DomainError {
	return Wrap(KindUpstreamUnavailable, message, cause)
}

func Configuration(message string, cause error) *DomainError {
	return Wrap(KindConfiguration, message, cause)
}

func Internal(message string, cause error) *DomainError {
	return Wrap(KindInternal, message, cause)
}

// As returns the DomainError in err's chain, if any.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf reports the kind of err. Unmapped errors are internal.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return KindInternal
}

// Retryable reports whether the same request may succeed later.
func Retryable(err error) bool {
	return KindOf(err) == KindUpstreamUnavailable
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument, KindSignatureInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
