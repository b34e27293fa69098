package app

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"
)

// BlockingDetector is debugging scaffolding, not production policy (§5
// "Optional blocking detector"): it arms a per-interval check and expects
// the main driver loop to clear it by calling Tick before the interval
// elapses. If a tick is missed the watchdog judges the app blocked and
// logs a stack trace (optionally panicking, per RaiseExc).
type BlockingDetector struct {
	interval time.Duration
	raiseExc bool
	armed    atomic.Bool
	stop     chan struct{}
}

// NewBlockingDetector builds a detector; interval <= 0 disables it (Start
// becomes a no-op).
func NewBlockingDetector(interval time.Duration, raiseExc bool) *BlockingDetector {
	return &BlockingDetector{interval: interval, raiseExc: raiseExc, stop: make(chan struct{})}
}

// Start begins watching. Call Tick periodically (at least once per
// interval) from the app's main loop; Stop ends the watchdog.
func (b *BlockingDetector) Start() {
	if b.interval <= 0 {
		return
	}
	b.armed.Store(true)
	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				if b.armed.Swap(true) {
					buf := make([]byte, 1<<16)
					n := runtime.Stack(buf, true)
					log.Printf("blocking detector: main loop appears blocked:\n%s", buf[:n])
					if b.raiseExc {
						panic("blocking detector: main loop blocked")
					}
				}
			}
		}
	}()
}

// Tick clears the armed flag, signalling the main loop is still making
// progress.
func (b *BlockingDetector) Tick() {
	b.armed.Store(false)
}

// Stop ends the watchdog goroutine.
func (b *BlockingDetector) Stop() {
	close(b.stop)
}
