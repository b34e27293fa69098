package app

import (
	"github.com/Montana/dirt/config"
	"github.com/Montana/dirt/rpc"
	"github.com/Montana/dirt/runloop"
)

// Driver wires one running App's API into an edge and serves it over the
// app's bind URL (§4.8 "in the child constructs and starts the app"). It is
// the Go-native equivalent of original_source/dirt/app.py's DirtApp: the
// base every concrete app rides on, generalised from a single dotted-import
// hierarchy to an explicit struct composition.
type Driver struct {
	App      App
	Settings config.AppSettings
	Registry *rpc.Registry

	Edge     *rpc.Edge
	Resolver Resolver

	detector  *BlockingDetector
	closer    rpc.Closer
	stopServe chan struct{}
	serveDone chan struct{}
}

// maxConcurrentCalls is the default admission semaphore capacity (§4.6).
const maxConcurrentCalls = 64

// NewDriver builds a Driver for app per its settings. registry defaults to
// rpc.DefaultRegistry when nil. The Resolver field is optional and only
// consulted when App implements Server.
func NewDriver(a App, settings config.AppSettings, registry *rpc.Registry, logger rpc.Logger) *Driver {
	if registry == nil {
		registry = rpc.DefaultRegistry
	}
	edge := rpc.NewEdge(a.API(), maxConcurrentCalls, logger)
	return &Driver{App: a, Settings: settings, Registry: registry, Edge: edge}
}

// Start binds the app's server per its settings and arms the blocking
// detector if configured.
func (d *Driver) Start() error {
	bindURL := d.Settings.EffectiveBindURL()
	if bindURL == "" {
		return rpc.NewError(rpc.KindConfiguration, "app "+d.App.Name()+" has no bind/bind_url", nil)
	}
	closer, err := d.Registry.Listen(d.Edge, bindURL, nil)
	if err != nil {
		return err
	}
	d.closer = closer

	if d.Settings.BlockingDetectorTimeout > 0 {
		d.detector = NewBlockingDetector(d.Settings.BlockingDetectorTimeout, d.Settings.BlockingDetectorRaiseExc)
		d.detector.Start()
	}

	if srv, ok := d.App.(Server); ok {
		d.stopServe = make(chan struct{})
		d.serveDone = make(chan struct{})
		go func() {
			defer close(d.serveDone)
			// Each Serve call is one pass of work (mirroring
			// original_source's @runloop-decorated `serve` methods);
			// runloop.Run restarts it per §4.9's restart-on-return/
			// restart-on-error policy. stopServe is checked only between
			// passes.
			_ = runloop.Run(func() error {
				select {
				case <-d.stopServe:
					return runloop.ErrDone
				default:
					return srv.Serve(d.Resolver, d.Tick)
				}
			})
		}()
	}
	return nil
}

// Tick clears the blocking detector's armed flag; a no-op if none is
// configured. The app's main worker loop should call this once per pass.
func (d *Driver) Tick() {
	if d.detector != nil {
		d.detector.Tick()
	}
}

// Stop closes the server, the blocking detector, and the serve loop
// (if any), waiting for the serve goroutine to notice and exit.
func (d *Driver) Stop() error {
	if d.detector != nil {
		d.detector.Stop()
	}
	if d.stopServe != nil {
		close(d.stopServe)
		<-d.serveDone
	}
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
