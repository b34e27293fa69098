package runloop

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantSleep(time.Duration) {}

func TestRunStopsOnErrDone(t *testing.T) {
	calls := 0
	err := run(func() error {
		calls++
		if calls == 3 {
			return ErrDone
		}
		return nil
	}, instantSleep)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunPropagatesCooperativeExit(t *testing.T) {
	err := run(func() error {
		return ErrCooperativeExit
	}, instantSleep)
	assert.ErrorIs(t, err, ErrCooperativeExit)
}

func TestRunRestartsOnOrdinaryError(t *testing.T) {
	calls := 0
	err := run(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return ErrDone
	}, instantSleep)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunSleepsLongerForATightLoop(t *testing.T) {
	var slept time.Duration
	calls := 0
	_ = run(func() error {
		calls++
		if calls == 2 {
			return ErrDone
		}
		return nil
	}, func(d time.Duration) { slept = d })
	assert.Equal(t, tightLoopSleep, slept)
}

func TestSleepForPicksNormalSleepPastThreshold(t *testing.T) {
	assert.Equal(t, normalSleep, sleepFor(6*time.Second))
	assert.Equal(t, tightLoopSleep, sleepFor(1*time.Second))
}
