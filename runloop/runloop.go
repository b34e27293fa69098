// Package runloop wraps a worker function so it runs forever, restarting on
// both ordinary return and error, until the worker signals it's done or a
// cooperative-exit signal propagates past it (§4.9, C9).
package runloop

import (
	"errors"
	"log"
	"time"
)

// tightLoopThreshold and its sleep lengths implement §4.9's tight-loop
// protection: a worker that keeps failing fast (run took under the
// threshold) gets a long cooldown; one that ran a while gets a short pause
// before retrying.
const (
	tightLoopThreshold = 5 * time.Second
	tightLoopSleep     = 15 * time.Second
	normalSleep        = 1 * time.Second
)

// ErrDone is the sentinel a Worker returns to stop the loop cleanly.
var ErrDone = errors.New("runloop: done")

// ErrCooperativeExit marks an error that must propagate out of Run rather
// than be logged and retried — wrap an interrupt/shutdown signal with this
// via errors.Join or fmt.Errorf's %w to have Run re-raise it unchanged.
var ErrCooperativeExit = errors.New("runloop: cooperative exit")

// Worker is one pass of forever-work. Return ErrDone to stop cleanly, an
// error wrapping ErrCooperativeExit to stop without being treated as a
// fault, any other error to log-and-restart, or nil to restart after the
// same pause an error gets.
type Worker func() error

// Sleeper abstracts the pause between restarts so tests can run the loop
// without a real clock.
type Sleeper func(time.Duration)

// Run drives worker forever per §4.9 and §8 property 9 ("Runloop
// idempotence"): a worker returning ErrDone exits after one call; a worker
// that errors restarts after the prescribed sleep, except when the error
// wraps ErrCooperativeExit, which is returned to Run's caller unchanged.
func Run(worker Worker) error {
	return run(worker, time.Sleep)
}

func run(worker Worker, sleep Sleeper) error {
	for {
		start := time.Now()
		err := worker()
		elapsed := time.Since(start)

		if err == nil {
			sleep(sleepFor(elapsed))
			continue
		}
		if errors.Is(err, ErrDone) {
			return nil
		}
		if errors.Is(err, ErrCooperativeExit) {
			return err
		}
		log.Printf("runloop: worker error, restarting: %v", err)
		sleep(sleepFor(elapsed))
	}
}

func sleepFor(elapsed time.Duration) time.Duration {
	if elapsed < tightLoopThreshold {
		return tightLoopSleep
	}
	return normalSleep
}
