package rpc

import (
	"fmt"
	"strings"
	"time"
)

// Flag is one bit of a Call's closed flag enumeration.
type Flag string

const (
	// FlagWantResponse, when set, means the caller expects a return/raise/
	// yield-stream back. Cleared for fire-and-forget calls.
	FlagWantResponse Flag = "want_response"
	// FlagCanRetry, when set together with the client's retry-once setting,
	// allows one retry on a transport fault.
	FlagCanRetry Flag = "can_retry"
)

// validFlags is the closed enumeration; constructing a Call with any other
// flag name fails (§3 invariant, §8 property 1).
var validFlags = map[Flag]bool{
	FlagWantResponse: true,
	FlagCanRetry:     true,
}

// Meta is the mutable observability record carried alongside a Call.
type Meta struct {
	TimeReceived  time.Time
	TimeInQueue   time.Duration
	YieldedItems  int
}

// Call is the unit of work exchanged between a proxy and the edge.
//
// Args and Kwargs are treated as immutable once constructed; callers must
// not mutate a Call's Args/Kwargs slices/maps after NewCall returns one.
type Call struct {
	Name   string
	Args   []any
	Kwargs map[string]any
	Flags  map[Flag]bool
	Meta   Meta
}

// NewCall constructs a Call, validating name and flags. flags may be nil,
// in which case both want_response and can_retry default to true.
func NewCall(name string, args []any, kwargs map[string]any, flags map[Flag]bool) (*Call, error) {
	if name == "" {
		return nil, NewError(KindProtocol, "call name must not be empty", nil)
	}
	resolved := map[Flag]bool{FlagWantResponse: true, FlagCanRetry: true}
	for f, v := range flags {
		if !validFlags[f] {
			return nil, NewError(KindProtocol, fmt.Sprintf("unknown call flag %q", f), nil)
		}
		resolved[f] = v
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return &Call{
		Name:   name,
		Args:   args,
		Kwargs: kwargs,
		Flags:  resolved,
		Meta:   Meta{TimeReceived: time.Now()},
	}, nil
}

// WantResponse reports whether the caller expects a response.
func (c *Call) WantResponse() bool { return c.Flags[FlagWantResponse] }

// CanRetry reports whether the call may be retried once on a transport fault.
func (c *Call) CanRetry() bool { return c.Flags[FlagCanRetry] }

// Head returns the first dotted segment of Name and the remainder, if any.
// "orders.create" -> ("orders", "create"); "debug.status" -> ("debug", "status").
func (c *Call) Head() (head, rest string) {
	i := strings.IndexByte(c.Name, '.')
	if i < 0 {
		return c.Name, ""
	}
	return c.Name[:i], c.Name[i+1:]
}
