package rpc

import (
	"sync"
	"time"
)

// DebugPrefix is the reserved first dotted segment routing to the built-in
// debug API rather than the host app's own API (§4.6 step 1).
const DebugPrefix = "debug"

// Stats is the process-wide (per-Edge) completed/error counters (§3
// "Call-stats").
type Stats struct {
	Completed uint64
	Errors    uint64
}

// activeCall is one entry of the edge's active-calls list.
type activeCall struct {
	id      uint64
	name    string
	address string
	call    *Call
}

// Edge mediates every inbound call: method resolution, admission, timeout,
// lifecycle accounting and generator wrapping (§4.6). Per §9's design note,
// state lives on the Edge instance rather than in globals so tests can
// build isolated edges.
type Edge struct {
	API         any
	DefaultCallTimeout time.Duration // 0 disables; §4.6 "call_timeout"
	Logger      Logger

	sem *Semaphore

	mu          sync.Mutex
	stats       Stats
	active      []*activeCall
	nextID      uint64
	warnedBlock bool
	dbg         *debugAPI
}

// NewEdge builds an edge fronting api with the given admission capacity.
// capacity <= 0 disables admission limiting (§4.6 "none disables limiting").
func NewEdge(api any, capacity int, logger Logger) *Edge {
	if logger == nil {
		logger = StdLogger{}
	}
	return &Edge{API: api, sem: NewSemaphore(capacity), Logger: logger}
}

// Dispatch executes call through the edge and returns either a single
// value, a streaming Sequence, or an error (§4.5 step 3, §4.6).
//
// address is the peer's address, captured here per §9's resolution of the
// "address never assigned" open question: the server-side connection
// handler passes its peer address in, and the edge records it on the
// active-call snapshot.
func (e *Edge) Dispatch(call *Call, address string) (value any, seq Sequence, err error) {
	head, rest := call.Head()

	var (
		method     Method
		isDoc      bool
		doc        string
		found      bool
		debug      bool
		methodName string
	)
	if head == DebugPrefix {
		debug = true
		dhead, dsuffix := splitOnce(rest)
		methodName = dhead
		method, isDoc, doc, found = resolveMethod(e.debugAPI(), dhead, dsuffix)
	} else {
		methodName = head
		method, isDoc, doc, found = resolveMethod(e.API, head, rest)
	}

	if !found {
		return nil, nil, Expect(NewError(KindNotFound, "no method: "+call.Name, nil))
	}
	if isDoc {
		return doc, nil, nil
	}

	noTimeout := debug // built-in debug calls are never worth timing out
	if !debug {
		if nt, ok := e.API.(NoTimeoutAPI); ok {
			noTimeout = nt.NoTimeoutMethods()[methodName]
		}
	}

	if !debug {
		if !e.sem.TryAcquire() {
			e.warnBlocked()
			e.sem.Acquire()
		}
		defer e.sem.Release()
	}

	ac := e.admit(call, address)
	defer e.finalize(ac)

	done := make(chan struct{})
	var (
		result any
		rerr   error
	)
	go func() {
		defer close(done)
		result, rerr = method(call.Args, call.Kwargs)
	}()

	if e.DefaultCallTimeout > 0 && !noTimeout {
		select {
		case <-done:
		case <-time.After(e.DefaultCallTimeout):
			ac.call.Meta.TimeInQueue = time.Since(call.Meta.TimeReceived)
			e.markError(ac)
			return nil, nil, NewError(KindTimeout, "call timed out: "+call.Name, nil)
		}
	} else {
		<-done
	}

	if rerr != nil {
		e.markError(ac)
		return nil, nil, rerr
	}

	if s, ok := result.(Sequence); ok {
		return nil, e.wrapSequence(ac, s), nil
	}
	e.markCompleted(ac)
	return result, nil, nil
}

// splitOnce splits rest (already past the API head) into the method head
// and an optional ".getdoc"-style suffix.
func splitOnce(rest string) (head, suffix string) {
	for i := 0; i < len(rest); i++ {
		if rest[i] == '.' {
			return rest[:i], rest[i+1:]
		}
	}
	return rest, ""
}

func (e *Edge) admit(call *Call, address string) *activeCall {
	call.Meta.TimeInQueue = time.Since(call.Meta.TimeReceived)
	e.mu.Lock()
	e.nextID++
	ac := &activeCall{id: e.nextID, name: call.Name, address: address, call: call}
	e.active = append(e.active, ac)
	e.mu.Unlock()
	return ac
}

// finalize removes ac from the active set exactly once. It is always called
// via defer in Dispatch so every exit path (normal, error, timeout) runs it.
func (e *Edge) finalize(ac *activeCall) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.active {
		if c == ac {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return
		}
	}
}

func (e *Edge) markCompleted(ac *activeCall) {
	e.mu.Lock()
	e.stats.Completed++
	e.mu.Unlock()
}

func (e *Edge) markError(ac *activeCall) {
	e.mu.Lock()
	e.stats.Completed++
	e.stats.Errors++
	e.mu.Unlock()
}

func (e *Edge) warnBlocked() {
	e.mu.Lock()
	already := e.warnedBlock
	e.warnedBlock = true
	e.mu.Unlock()
	if !already {
		e.Logger.Warnf("too many concurrent callers, blocking admission")
	}
}

// wrapSequence wraps a method's returned Sequence so each item is counted
// in call.Meta.YieldedItems and finalisation runs exactly once on
// exhaustion or abort (§4.6 "Execution").
func (e *Edge) wrapSequence(ac *activeCall, inner Sequence) Sequence {
	finished := false
	finish := func(failed bool) {
		if finished {
			return
		}
		finished = true
		if failed {
			e.markError(ac)
		} else {
			e.markCompleted(ac)
		}
	}
	return SequenceFunc(func() (any, bool, error) {
		v, ok, err := inner.Next()
		if err != nil {
			finish(true)
			return nil, false, err
		}
		if !ok {
			finish(false)
			return nil, false, nil
		}
		ac.call.Meta.YieldedItems++
		return v, true, nil
	})
}

// DispatchCall is Dispatch's entry point for protocol bindings (such as
// grpcbinding) that don't speak the native Call/Message types directly. A
// returned Sequence is drained fully here before returning, which is the
// grpcbinding package's documented streaming limitation (§9).
func (e *Edge) DispatchCall(name string, args []any, kwargs map[string]any, peerAddr string) (value any, values []any, isSequence bool, err error) {
	call, err := NewCall(name, args, kwargs, nil)
	if err != nil {
		return nil, nil, false, err
	}
	value, seq, err := e.Dispatch(call, peerAddr)
	if err != nil {
		return nil, nil, false, err
	}
	if seq == nil {
		return value, nil, false, nil
	}
	var drained []any
	for {
		v, ok, derr := seq.Next()
		if derr != nil {
			return nil, nil, false, derr
		}
		if !ok {
			break
		}
		drained = append(drained, v)
	}
	return nil, drained, true, nil
}

// StatsSnapshot returns a snapshot of the completed/error counters.
func (e *Edge) StatsSnapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ActiveCount returns the number of calls currently admitted.
func (e *Edge) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// semaphore returns the admission semaphore (nil when limiting is
// disabled), for tests asserting §8 property 4 (semaphore balance) indirectly.
func (e *Edge) semaphore() *Semaphore { return e.sem }
