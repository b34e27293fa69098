package rpc

import (
	"reflect"
	"strings"
)

// Method is the signature every dispatchable API method must implement.
// Go has no runtime attribute interception, so unlike the Python original
// (where any callable attribute qualifies), methods are resolved by
// capitalizing the dotted call segment and looking up an exported method
// of that exact signature via reflection.
type Method func(args []any, kwargs map[string]any) (any, error)

// Sequence is a lazy, single-pass value sequence. A Method may return one
// to produce a streaming (yield/.../stop) response instead of a single
// return value (§3 Message, §4.6 "lazy sequence").
type Sequence interface {
	// Next returns the next value; ok is false once exhausted.
	Next() (value any, ok bool, err error)
}

// SequenceFunc adapts a plain function into a Sequence.
type SequenceFunc func() (any, bool, error)

func (f SequenceFunc) Next() (any, bool, error) { return f() }

// SliceSequence turns a pre-computed slice into a Sequence.
func SliceSequence(values []any) Sequence {
	i := 0
	return SequenceFunc(func() (any, bool, error) {
		if i >= len(values) {
			return nil, false, nil
		}
		v := values[i]
		i++
		return v, true, nil
	})
}

// NoTimeoutAPI is implemented by an API object that wants to mark some of
// its methods exempt from the edge's per-call timeout (§4.6).
type NoTimeoutAPI interface {
	NoTimeoutMethods() map[string]bool
}

// DocumentedAPI is implemented by an API object that can answer
// `.getdoc` lookups (§4.6 step 5).
type DocumentedAPI interface {
	Doc(method string) string
}

// snakeToPascal converts a dotted call segment ("api_methods") to the Go
// exported method name a host API implements it as ("ApiMethods").
func snakeToPascal(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// pascalToSnake converts a Go exported method name ("ApiMethods") back to
// the dotted-call spelling ("api_methods") for listing purposes.
func pascalToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveMethod implements §4.6's method-resolution algorithm for a single
// (head, suffix) pair against a host API object. Returns the method, whether
// the call is a getdoc request, the doc string for such a request, and
// whether a method was found.
func resolveMethod(api any, head, suffix string) (m Method, isDocRequest bool, doc string, found bool) {
	if strings.HasPrefix(head, "_") {
		return nil, false, "", false
	}

	exported := snakeToPascal(head)
	v := reflect.ValueOf(api)
	mv := v.MethodByName(exported)
	if !mv.IsValid() {
		return nil, false, "", false
	}
	fn, ok := mv.Interface().(func([]any, map[string]any) (any, error))
	if !ok {
		return nil, false, "", false
	}

	if suffix != "" {
		if suffix != "getdoc" {
			return nil, false, "", false
		}
		docStr := ""
		if d, ok := api.(DocumentedAPI); ok {
			docStr = d.Doc(head)
		}
		return nil, true, docStr, true
	}

	return Method(fn), false, "", true
}

// publicMethodNames lists the exported, callable-as-Method names on api,
// converted back to the dotted-call spelling by pascalToSnake. Used by
// the built-in debug API's api_methods()/debug_methods() (§4.6).
func publicMethodNames(api any) []string {
	t := reflect.TypeOf(api)
	if t == nil {
		return nil
	}
	var names []string
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		bound := reflect.ValueOf(api).MethodByName(m.Name)
		if _, ok := bound.Interface().(func([]any, map[string]any) (any, error)); !ok {
			continue
		}
		names = append(names, pascalToSnake(m.Name))
	}
	return names
}
