// SPDX-License-Identifier: Apache-2.0

// Package errs defines the error taxonomy shared by every symsync layer.
//
// Failures are represented as a single [Error] struct with an explicit [Kind]
// discriminant instead of a type hierarchy; callers branch with [KindOf] or
// [IsKind] and never on concrete type identity. Each kind carries the payload
// fields relevant to its diagnostics (offending key, target host/port, the
// wrapped cause) so the CLI can report a distinct, attributable failure
// category in all cases.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure into one of the four invocation-fatal categories.
type Kind int

const (
	// KindUnknown is the zero value and never produced by this package.
	KindUnknown Kind = iota

	// KindConfiguration marks caller-supplied configuration that is
	// self-inconsistent (unknown directory type, https without an
	// application port). Never retried.
	KindConfiguration

	// KindAuthentication marks a missing, unknown, or unentitled license
	// key, or a structurally invalid licensing response. Never retried,
	// even mid retry loop.
	KindAuthentication

	// KindConnection marks a licensing endpoint that stayed unreachable
	// across all retry attempts.
	KindConnection

	// KindSync marks a transport synchronize call that failed for reasons
	// opaque to the orchestrator. Propagated after guaranteed teardown.
	KindSync
)

// String returns the kind's canonical name for logs and reports.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindConnection:
		return "connection"
	case KindSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Error is the single error value used across symsync. Fields beyond Kind and
// Msg are populated only where the kind calls for them.
type Error struct {
	Kind Kind
	Msg  string

	// Key is the offending license/API key for authentication failures.
	// Callers must mask it before logging.
	Key string
	// Host and Port identify the endpoint a connection failure targeted.
	Host string
	Port int
	// Secure marks the failed connection as TLS-protected.
	Secure bool

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewConfiguration builds a configuration-kind error.
func NewConfiguration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// NewAuthentication builds an authentication-kind error carrying the
// offending key and the licensing host it was checked against.
func NewAuthentication(msg, key, host string) *Error {
	return &Error{Kind: KindAuthentication, Msg: msg, Key: key, Host: host}
}

// NewConnection builds a connection-kind error for an endpoint that could not
// be reached, wrapping the last underlying failure.
func NewConnection(host string, port int, secure bool, cause error) *Error {
	return &Error{
		Kind:   KindConnection,
		Msg:    fmt.Sprintf("licensing endpoint %s:%d unreachable", host, port),
		Host:   host,
		Port:   port,
		Secure: secure,
		Err:    cause,
	}
}

// NewSync wraps a transport synchronize failure without reinterpreting it.
func NewSync(cause error) *Error {
	return &Error{Kind: KindSync, Msg: "synchronize failed", Err: cause}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
