package rpc

// Semaphore is a process-wide bounded admission gate, implemented as a
// buffered channel in the teacher's idiom (infra/network/rpc.go's
// `pools map[string]chan net.Conn` token pattern, reused here to gate
// concurrency rather than pool connections). A nil *Semaphore disables
// limiting entirely (§4.6 "none disables limiting").
type Semaphore struct {
	tokens chan struct{}
}

// NewSemaphore builds a semaphore with the given capacity. capacity <= 0
// disables limiting (returns nil, which Acquire/Release treat as a no-op).
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		return nil
	}
	return &Semaphore{tokens: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is free. Safe to call on a nil *Semaphore.
func (s *Semaphore) Acquire() {
	if s == nil {
		return
	}
	s.tokens <- struct{}{}
}

// TryAcquire attempts a non-blocking acquire, reporting success.
func (s *Semaphore) TryAcquire() bool {
	if s == nil {
		return true
	}
	select {
	case s.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees one slot. Safe to call on a nil *Semaphore.
func (s *Semaphore) Release() {
	if s == nil {
		return
	}
	<-s.tokens
}
