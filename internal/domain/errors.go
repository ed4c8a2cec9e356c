package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a query failure.
type ErrorKind int

const (
	// KindTransport covers network and connectivity failures.
	KindTransport ErrorKind = iota
	// KindAuth means the credential was rejected by the remote endpoint.
	KindAuth
	// KindNotFound is the domain-level empty or error response. It is also
	// the coarse kind every aggregation failure collapses into.
	KindNotFound
	// KindRetryExhausted means every credential in the pool was tried and
	// all attempts failed. The wrapped cause is the last attempt's error.
	KindRetryExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindAuth:
		return "auth failure"
	case KindNotFound:
		return "not found"
	case KindRetryExhausted:
		return "retry exhausted"
	default:
		return "unknown"
	}
}

// QueryError is the only error type that crosses the public surface.
// Cause is optional and preserved for logging; callers decide on Kind.
type QueryError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Cause }

// NewQueryError builds a classified error, optionally wrapping a cause.
func NewQueryError(kind ErrorKind, message string, cause error) *QueryError {
	return &QueryError{Kind: kind, Message: message, Cause: cause}
}

// NotFound collapses any constituent failure into the coarse error
// surfaced to callers of the aggregation.
func NotFound(username string, cause error) *QueryError {
	return &QueryError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("user %q not found", username),
		Cause:   cause,
	}
}

// IsKind reports whether err carries the given kind. The outermost
// classified error in the chain decides.
func IsKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == kind
}
