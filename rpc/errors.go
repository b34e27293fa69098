package rpc

import (
	"errors"
	"fmt"
)

// Kind classifies an Error by where in the call lifecycle it originated.
type Kind int

const (
	// KindTransport covers socket faults, framing violations and codec failures.
	KindTransport Kind = iota
	// KindProtocol covers unexpected message types and malformed calls.
	KindProtocol
	// KindRemoteApplication covers a peer method raising.
	KindRemoteApplication
	// KindTimeout covers a call-level timeout firing.
	KindTimeout
	// KindAdmissionSaturation is logged only; never returned to a caller.
	KindAdmissionSaturation
	// KindNotFound covers an unknown method name.
	KindNotFound
	// KindConfiguration covers bad settings.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindRemoteApplication:
		return "remote-application"
	case KindTimeout:
		return "timeout"
	case KindAdmissionSaturation:
		return "admission-saturation"
	case KindNotFound:
		return "not-found"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error is the one error type the RPC core returns. Expected is informational
// only (per §7): routine disconnects and "no method" lookups can be marked
// expected so a caller's logging doesn't treat them as surprising.
type Error struct {
	Kind     Kind
	Message  string
	Cause    error
	Expected bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rpc: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("rpc: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an Error of the given kind wrapping cause (which may be nil).
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Expect marks err as an expected error (routine, not worth a stack trace).
func Expect(err *Error) *Error {
	err.Expected = true
	return err
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
