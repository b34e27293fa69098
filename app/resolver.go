package app

import "github.com/Montana/dirt/rpc"

// APIHandle is the result of resolving another app's name: either a live
// proxy or a mock, structurally identical to supervisor.APIHandle so a
// *supervisor.Runner satisfies Resolver without this package importing
// supervisor (which itself imports app to build mocks).
type APIHandle interface {
	Call(name string, args []any, kwargs map[string]any) (any, rpc.Sequence, error)
}

// Resolver is the settings.get_api(name) collaborator (§4.8) a Server app
// needs to call its peers.
type Resolver interface {
	GetAPI(name string) (APIHandle, error)
}

// Server is implemented by an app whose main work is an ongoing
// runloop-wrapped worker rather than (or in addition to) answering inbound
// calls — the Go rendition of original_source/dirt/app.py's `@runloop`-
// decorated `serve` method (e.g. SecondApp in example_project/example.py).
// Serve should perform one pass of work and return; Driver wraps repeated
// calls in runloop.Run.
// tick, when non-nil, should be called periodically by a long-running Serve
// to clear the blocking detector's armed flag (§5 "Optional blocking
// detector"); Serve implementations with no natural per-iteration point to
// call it may simply ignore the parameter.
type Server interface {
	App
	Serve(resolver Resolver, tick func()) error
}
