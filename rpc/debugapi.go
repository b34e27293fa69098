package rpc

import (
	"fmt"
	"time"

	"github.com/Montana/dirt/help"
)

// debugAPI implements the built-in reflective surface every edge exposes
// under the "debug." prefix (§4.6 "Built-in debug API"). It is bound to
// the Edge that owns it so status()/active_calls() can read live stats.
type debugAPI struct {
	edge      *Edge
	startedAt time.Time
}

func (e *Edge) debugAPI() *debugAPI {
	if e.dbg == nil {
		e.dbg = &debugAPI{edge: e, startedAt: time.Now()}
	}
	return e.dbg
}

// Ping returns "pong: <epoch-seconds>", or raises if the raise_error kwarg
// is truthy.
func (d *debugAPI) Ping(args []any, kwargs map[string]any) (any, error) {
	if raiseErr, _ := kwargs["raise_error"].(bool); raiseErr {
		return nil, NewError(KindRemoteApplication, "ping asked to raise", nil)
	}
	return fmt.Sprintf("pong: %d", time.Now().Unix()), nil
}

// ApiMethods returns the callable, non-underscore method names of the host
// API, plus the debug prefix itself.
func (d *debugAPI) ApiMethods(args []any, kwargs map[string]any) (any, error) {
	names := publicMethodNames(d.edge.API)
	names = append(names, DebugPrefix)
	return names, nil
}

// DebugMethods returns the debug API's own public method names, excluding
// getdoc (which is a suffix, not a method).
func (d *debugAPI) DebugMethods(args []any, kwargs map[string]any) (any, error) {
	return publicMethodNames(d), nil
}

// ActiveCalls returns (address, snapshot) pairs for every currently
// admitted call, snapshot.age computed as now - time_received.
func (d *debugAPI) ActiveCalls(args []any, kwargs map[string]any) (any, error) {
	d.edge.mu.Lock()
	defer d.edge.mu.Unlock()
	out := make([]map[string]any, 0, len(d.edge.active))
	for _, ac := range d.edge.active {
		out = append(out, map[string]any{
			"address": ac.address,
			"name":    ac.name,
			"age":     time.Since(ac.call.Meta.TimeReceived).Seconds(),
		})
	}
	return out, nil
}

// Status returns {uptime, api_calls: {completed, errors, pending, active}}.
// "pending" is admitted-but-not-yet-started (zero time_in_queue); "active"
// is the rest (§4.6).
func (d *debugAPI) Status(args []any, kwargs map[string]any) (any, error) {
	d.edge.mu.Lock()
	pending, active := 0, 0
	for _, ac := range d.edge.active {
		if ac.call.Meta.TimeInQueue == 0 {
			pending++
		} else {
			active++
		}
	}
	stats := d.edge.stats
	d.edge.mu.Unlock()

	return map[string]any{
		"uptime":     time.Since(d.startedAt).Seconds(),
		"started_at": help.TimestampToDateStr(d.startedAt.Unix()),
		"api_calls": map[string]any{
			"completed": stats.Completed,
			"errors":    stats.Errors,
			"pending":   pending,
			"active":    active,
		},
	}, nil
}

// Doc answers debug.<method>.getdoc for the debug API's own methods.
func (d *debugAPI) Doc(method string) string {
	switch method {
	case "ping":
		return "ping(raise_error=false) -> \"pong: <epoch>\"; raises if raise_error."
	case "api_methods":
		return "api_methods() -> names of the host API's callable methods."
	case "debug_methods":
		return "debug_methods() -> names of the debug API's own methods."
	case "active_calls":
		return "active_calls() -> [(address, snapshot)] for every admitted call."
	case "status":
		return "status() -> {uptime, api_calls: {completed, errors, pending, active}}."
	default:
		return ""
	}
}
