package supervisor

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/Montana/dirt/app"
	"github.com/Montana/dirt/config"
	"github.com/Montana/dirt/rpc"
)

// Exit codes propagated by a child app process (§4.8).
const (
	ExitNormal      = 0
	ExitError       = 1
	ExitInterrupted = 4
	// ExitCleanStop is the sentinel meaning "stopped on purpose, do not
	// cascade SIGTERM to siblings".
	ExitCleanStop = 99
)

// livenessProbeTimeout bounds get_api's TCP check of a remote (§4.8).
const livenessProbeTimeout = 1 * time.Second

// APIHandle is what a caller obtained from GetAPI invokes: either a live
// proxy over the wire, or an in-process mock. Both resolve methods the same
// way an edge would, so a caller can't tell which it got except by the
// mock's behaviour (§4.8 "get_api"). It is an alias for app.APIHandle (not a
// fresh interface) so *Runner satisfies app.Resolver directly: Go requires
// exact method-signature type identity to satisfy an interface, and a
// locally redeclared interface — even an identical one — would not count.
type APIHandle = app.APIHandle

type liveHandle struct{ proxy *rpc.Proxy }

func (h liveHandle) Call(name string, args []any, kwargs map[string]any) (any, rpc.Sequence, error) {
	v, gen, err := h.proxy.Attr(name).Invoke(args, kwargs, nil)
	if gen != nil {
		return v, gen, err
	}
	return v, nil, err
}

type mockHandle struct{ edge *rpc.Edge }

func (h mockHandle) Call(name string, args []any, kwargs map[string]any) (any, rpc.Sequence, error) {
	call, err := rpc.NewCall(name, args, kwargs, nil)
	if err != nil {
		return nil, nil, err
	}
	return h.edge.Dispatch(call, "mock")
}

// ConsulRegistrar is the optional service-registration hook §10's domain
// stack wires to hashicorp/consul/api (teacher's infra/consul/consul.go,
// adapted): run_many registers each started app so other processes can
// discover it via Consul instead of (or in addition to) a static remote URL.
type ConsulRegistrar interface {
	RegisterService(id, name, address string, port int) error
	DeregisterService(serviceID string) error
}

// Runner forks and supervises one OS process per declared app (§4.8, C8).
type Runner struct {
	Settings *config.Settings
	Registry *rpc.Registry
	Consul   ConsulRegistrar
	Logger   rpc.Logger

	mu        sync.Mutex
	knownLive map[string]bool
	procs     map[string]*exec.Cmd
}

// NewRunner builds a Runner against settings. registry defaults to
// rpc.DefaultRegistry when nil.
func NewRunner(settings *config.Settings, registry *rpc.Registry, logger rpc.Logger) *Runner {
	if registry == nil {
		registry = rpc.DefaultRegistry
	}
	if logger == nil {
		logger = rpc.StdLogger{}
	}
	return &Runner{
		Settings:  settings,
		Registry:  registry,
		Logger:    logger,
		knownLive: map[string]bool{},
		procs:     map[string]*exec.Cmd{},
	}
}

// RunMany forks one child per name, each re-executing the current binary
// with `--child NAME` (the Go-native equivalent of the Python supervisor's
// in-process fork: a new OS process gets its own heap, so the child is the
// entire running program started in child mode instead of a forked copy of
// this one). Each child gets its own session via Setsid, so the supervisor
// can SIGTERM its whole process group. RunMany blocks until every child has
// exited, then returns the first non-clean exit code seen (0 if all were
// clean).
func (r *Runner) RunMany(names []string) int {
	self, err := os.Executable()
	if err != nil {
		r.Logger.Printf("supervisor: resolve executable: %v", err)
		return ExitError
	}

	type result struct {
		name string
		code int
	}
	done := make(chan result, len(names))

	for _, name := range names {
		name := name
		cmd := exec.Command(self, "run", "--child", name)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

		if err := cmd.Start(); err != nil {
			r.Logger.Printf("supervisor: start app %s: %v", name, err)
			done <- result{name, ExitError}
			continue
		}

		r.mu.Lock()
		r.procs[name] = cmd
		r.knownLive[name] = true
		r.mu.Unlock()

		if r.Consul != nil {
			if as, ok := r.Settings.Apps[name]; ok {
				if addr := hostPort(as.EffectiveBindURL()); addr != "" {
					host, port := splitHostPort(addr)
					if err := r.Consul.RegisterService(name, name, host, port); err != nil {
						r.Logger.Warnf("supervisor: consul register %s: %v", name, err)
					}
				}
			}
		}

		go func() {
			err := cmd.Wait()
			code := ExitNormal
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					code = exitErr.ExitCode()
				} else {
					code = ExitError
				}
			}
			if r.Consul != nil {
				_ = r.Consul.DeregisterService(name)
			}
			done <- result{name, code}
		}()
	}

	firstBadCode := ExitNormal
	remaining := len(names)
	cascaded := false
	for remaining > 0 {
		res := <-done
		remaining--
		r.Logger.Printf("supervisor: app %s exited with code %d", res.name, res.code)
		if res.code != ExitNormal && res.code != ExitCleanStop && !cascaded {
			cascaded = true
			firstBadCode = res.code
			r.cascade(res.name)
		}
	}
	return firstBadCode
}

// cascade sends SIGTERM to every process group except except_, per §4.8
// "when any child exits non-trivially... signals SIGTERM to every remaining
// process group" (§8 property 8 "Supervisor cascade").
func (r *Runner) cascade(except string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, cmd := range r.procs {
		if name == except || cmd.Process == nil {
			continue
		}
		// Negative PID targets the whole process group created by Setsid.
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}

// GetAPI resolves name to a live proxy or, when allowed, a mock (§4.8
// "API resolution"). The decision order: mock fallback requires
// ALLOW_MOCK_API, name absent from the known-live set populated by RunMany,
// a configured mock_cls, AND a failed liveness probe of the remote.
// NO_MOCK_<APPNAME> in the environment (config.Settings.MockAllowedFor)
// vetoes the mock regardless of the above.
func (r *Runner) GetAPI(name string) (APIHandle, error) {
	as, ok := r.Settings.Apps[name]
	if !ok {
		return nil, rpc.NewError(rpc.KindConfiguration, "no such app: "+name, nil)
	}

	r.mu.Lock()
	live := r.knownLive[name]
	r.mu.Unlock()

	remoteURL := as.EffectiveRemoteURL()
	if remoteURL == "" {
		remoteURL = as.EffectiveBindURL()
	}

	if r.Settings.MockAllowedFor(name) && !live && as.MockCls != "" {
		if !probeAlive(hostPort(remoteURL), livenessProbeTimeout) {
			mockApp, err := app.Build(as.MockCls, as)
			if err != nil {
				return nil, fmt.Errorf("supervisor: build mock %s for %s: %w", as.MockCls, name, err)
			}
			edge := rpc.NewEdge(mockApp.API(), 0, r.Logger)
			return mockHandle{edge: edge}, nil
		}
	}

	if remoteURL == "" {
		return nil, rpc.NewError(rpc.KindConfiguration, "app "+name+" has no remote/remote_url", nil)
	}
	caller, err := r.Registry.Dial(remoteURL, as.BlockingDetectorTimeout)
	if err != nil {
		return nil, err
	}
	return liveHandle{proxy: rpc.NewProxy(caller)}, nil
}

func probeAlive(hostport string, timeout time.Duration) bool {
	if hostport == "" {
		return false
	}
	conn, err := net.DialTimeout("tcp", hostport, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// hostPort extracts the host:port a scheme:// URL's authority encodes, for
// the liveness probe and Consul registration (both of which want a bare
// TCP address, not the scheme).
func hostPort(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func splitHostPort(hostport string) (host string, port int) {
	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, 0
	}
	fmt.Sscanf(p, "%d", &port)
	return h, port
}
