package adapter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavekit/practice/api"
)

func TestIntervalTimerCountsDownToComplete(t *testing.T) {
	timer := NewIntervalTimer(WithTickInterval(time.Millisecond))

	var completed atomic.Bool
	var lastTick atomic.Int64
	err := timer.Bind(api.TimerCallbacks{
		OnComplete: func() { completed.Store(true) },
		OnTick:     func(remaining int) { lastTick.Store(int64(remaining)) },
	})
	require.Nil(t, err)

	timer.StartTimer(3)
	assert.Eventually(t, completed.Load, time.Second, time.Millisecond)
	assert.Equal(t, int64(0), lastTick.Load())
}

func TestIntervalTimerBindRequiresOnComplete(t *testing.T) {
	timer := NewIntervalTimer()
	err := timer.Bind(api.TimerCallbacks{OnTick: func(int) {}})
	require.NotNil(t, err)
}

func TestIntervalTimerPauseFreezesCountdown(t *testing.T) {
	timer := NewIntervalTimer(WithTickInterval(time.Millisecond))

	var toggles atomic.Int64
	err := timer.Bind(api.TimerCallbacks{
		OnComplete:    func() {},
		OnPauseToggle: func(bool) { toggles.Add(1) },
	})
	require.Nil(t, err)

	timer.StartTimer(10_000)
	timer.SetPaused(true)
	frozen := timer.Remaining()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, timer.Remaining())

	// toggling to the same state again is a no-op
	timer.SetPaused(true)
	assert.Equal(t, int64(1), toggles.Load())

	timer.SetPaused(false)
	assert.Eventually(t, func() bool {
		return timer.Remaining() < frozen
	}, time.Second, time.Millisecond)
	timer.Stop()
}

func TestIntervalTimerRestartCancelsPrevious(t *testing.T) {
	timer := NewIntervalTimer(WithTickInterval(time.Millisecond))

	var completions atomic.Int64
	require.Nil(t, timer.Bind(api.TimerCallbacks{
		OnComplete: func() { completions.Add(1) },
	}))

	timer.StartTimer(2)
	timer.StartTimer(2)
	assert.Eventually(t, func() bool {
		return completions.Load() == 1
	}, time.Second, time.Millisecond)
	// the replaced countdown must not fire a second completion
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int64(1), completions.Load())
}

func TestIntervalTimerManualControls(t *testing.T) {
	timer := NewIntervalTimer()

	var nexts, exits atomic.Int64
	require.Nil(t, timer.Bind(api.TimerCallbacks{
		OnComplete:   func() {},
		OnManualNext: func() { nexts.Add(1) },
		OnExit:       func() { exits.Add(1) },
	}))

	timer.ManualNext()
	timer.RequestExit()
	assert.Equal(t, int64(1), nexts.Load())
	assert.Equal(t, int64(1), exits.Load())
}

func TestIntervalTimerStopIdempotent(t *testing.T) {
	timer := NewIntervalTimer(WithTickInterval(time.Millisecond))
	require.Nil(t, timer.Bind(api.TimerCallbacks{OnComplete: func() {}}))

	timer.StartTimer(10_000)
	timer.Stop()
	timer.Stop()
}
