package rpc

import (
	"net/url"
	"sync"
	"time"
)

// ServerBinding starts serving edge at the address encoded in a bind URL.
type ServerBinding interface {
	Listen(edge *Edge, bindURL string, logger Logger) (Closer, error)
}

// ClientBinding builds a Caller for the address encoded in a remote URL.
type ClientBinding interface {
	Dial(remoteURL string, dialTimeout time.Duration) (Caller, error)
}

// Closer is satisfied by *Server and any alternative binding's listener.
type Closer interface {
	Close() error
}

// registryEntry pairs one scheme's server and client bindings (§4.7).
type registryEntry struct {
	Server ServerBinding
	Client ClientBinding
}

// Registry is the process-wide mapping from URL scheme to (server, client)
// binding pair; the whole RPC layer is indirected through it so the rest of
// the core never branches on scheme directly (§9 "Pluggable protocol").
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

// DefaultRegistry is populated at package init with the native dirtrpc
// binding; grpcbinding.Register adds the alternative binding.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{entries: map[string]registryEntry{}}
}

// Register associates scheme with a (server, client) binding pair.
func (r *Registry) Register(scheme string, server ServerBinding, client ClientBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[scheme] = registryEntry{Server: server, Client: client}
}

// Lookup resolves scheme to its binding pair.
func (r *Registry) Lookup(scheme string) (ServerBinding, ClientBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[scheme]
	return e.Server, e.Client, ok
}

// Listen parses bindURL, resolves its scheme, and starts serving edge.
func (r *Registry) Listen(edge *Edge, bindURL string, logger Logger) (Closer, error) {
	scheme, err := schemeOf(bindURL)
	if err != nil {
		return nil, err
	}
	server, _, ok := r.Lookup(scheme)
	if !ok {
		return nil, NewError(KindConfiguration, "no protocol binding registered for scheme "+scheme, nil)
	}
	return server.Listen(edge, bindURL, logger)
}

// Dial parses remoteURL, resolves its scheme, and builds a Caller.
func (r *Registry) Dial(remoteURL string, dialTimeout time.Duration) (Caller, error) {
	scheme, err := schemeOf(remoteURL)
	if err != nil {
		return nil, err
	}
	_, client, ok := r.Lookup(scheme)
	if !ok {
		return nil, NewError(KindConfiguration, "no protocol binding registered for scheme "+scheme, nil)
	}
	return client.Dial(remoteURL, dialTimeout)
}

func schemeOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "", NewError(KindConfiguration, "invalid URL: "+rawURL, err)
	}
	return u.Scheme, nil
}

// nativeServerBinding is the "dirtrpc://" scheme's ServerBinding.
type nativeServerBinding struct{}

func (nativeServerBinding) Listen(edge *Edge, bindURL string, logger Logger) (Closer, error) {
	u, err := url.Parse(bindURL)
	if err != nil {
		return nil, NewError(KindConfiguration, "invalid bind URL "+bindURL, err)
	}
	srv := NewServer(edge, logger)
	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(u.Host) }()
	select {
	case err := <-errc:
		if err != nil {
			return nil, err
		}
	case <-time.After(50 * time.Millisecond):
		// Listen blocks serving; give it a moment to fail fast on a bad
		// address, otherwise assume it's up and serving in the background.
	}
	return srv, nil
}

// nativeClientBinding is the "dirtrpc://" scheme's ClientBinding.
type nativeClientBinding struct{}

func (nativeClientBinding) Dial(remoteURL string, dialTimeout time.Duration) (Caller, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, NewError(KindConfiguration, "invalid remote URL "+remoteURL, err)
	}
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	// Open one connection up front so an unreachable remote fails here; it
	// is left idle in the pool for the first call.
	client := NewClient("dirtrpc", u.Host, dialTimeout)
	conn, err := client.pool.Get()
	if err != nil {
		return nil, err
	}
	client.pool.Release(conn)
	return client, nil
}

func init() {
	DefaultRegistry.Register("dirtrpc", nativeServerBinding{}, nativeClientBinding{})
}
