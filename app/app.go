// Package app is the Go rendition of dirt's DirtApp base (original_source's
// dirt/app.py): the glue between a settings-document app entry and a
// running rpc.Edge/rpc.Server pair. Because Go has no import-by-string,
// the Python original's `app_class` dotted import path resolves here
// through an explicit factory registry populated by each example app's
// init() — see Register.
package app

import (
	"fmt"
	"sync"

	"github.com/Montana/dirt/config"
	"github.com/Montana/dirt/rpc"
)

// App is implemented by every app's own API type. API is the object the
// edge dispatches calls against (§4.6); Name identifies the app for
// logging, pidfile templating and mock resolution.
type App interface {
	Name() string
	API() any
}

// Factory constructs an App from its app-scoped settings.
type Factory func(settings config.AppSettings) (App, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// Register associates an app_class string (as it would appear in the
// settings document) with a Factory. Call from an example app's init().
func Register(appClass string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[appClass] = factory
}

// Lookup resolves an app_class string to its Factory.
func Lookup(appClass string) (Factory, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	f, ok := registry[appClass]
	return f, ok
}

// Build is Lookup+invoke, returning a descriptive error when app_class is
// unregistered (§7 KindConfiguration).
func Build(appClass string, settings config.AppSettings) (App, error) {
	factory, ok := Lookup(appClass)
	if !ok {
		return nil, rpc.NewError(rpc.KindConfiguration, fmt.Sprintf("unregistered app_class %q", appClass), nil)
	}
	return factory(settings)
}
