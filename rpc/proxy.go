package rpc

// Proxy is a (client, prefix) handle. Attribute access yields a new handle
// whose prefix is extended; invocation constructs and executes a Call
// (§3 "Proxy handle"). Go has no runtime attribute interception, so the
// fluent chain is built explicitly via Attr rather than by dotted access.
type Proxy struct {
	caller Caller
	prefix string
}

// NewProxy returns the root handle (empty prefix; cannot be invoked) for
// caller.
func NewProxy(caller Caller) *Proxy {
	return &Proxy{caller: caller}
}

// Attr returns a new handle with name appended to the dotted prefix.
func (p *Proxy) Attr(name string) *Proxy {
	next := name
	if p.prefix != "" {
		next = p.prefix + "." + name
	}
	return &Proxy{caller: p.caller, prefix: next}
}

// CallOptions carries the leading-marker flags mentioned in §4.4 ("_can_retry
// distinguishes a flag from a kwarg"): Go spells these as named fields
// instead of a leading-underscore kwarg key.
type CallOptions struct {
	WantResponse *bool
	CanRetry     *bool
}

// Invoke builds a Call from the handle's prefix and executes it. An
// empty-prefix handle cannot be invoked (§3).
func (p *Proxy) Invoke(args []any, kwargs map[string]any, opts *CallOptions) (any, *ResultGenerator, error) {
	if p.prefix == "" {
		return nil, nil, NewError(KindProtocol, "cannot invoke the root proxy handle", nil)
	}
	flags := map[Flag]bool{}
	if opts != nil {
		if opts.WantResponse != nil {
			flags[FlagWantResponse] = *opts.WantResponse
		}
		if opts.CanRetry != nil {
			flags[FlagCanRetry] = *opts.CanRetry
		}
	}
	call, err := NewCall(p.prefix, args, kwargs, flags)
	if err != nil {
		return nil, nil, err
	}
	return p.caller.Call(call)
}

// Call is sugar for Invoke with default flags and no kwargs.
func (p *Proxy) Call(args ...any) (any, *ResultGenerator, error) {
	return p.Invoke(args, nil, nil)
}
