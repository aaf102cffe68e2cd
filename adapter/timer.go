// Package adapter provides ready-made collaborator implementations for the
// practice session runtime: a ticker-driven section timer, in-memory plan
// and highlight stores, a presentation region registry, and a host
// visibility signal.
package adapter

import (
	"errors"
	"sync"
	"time"

	"github.com/stavekit/practice/api"
)

var errNilCallbacks = errors.New("timer callbacks not wired")

// IntervalTimer is a ticker-driven SectionTimer. Callbacks are always
// invoked without the timer's lock held, so they may re-enter the
// orchestrator freely.
type IntervalTimer struct {
	tick time.Duration

	mu        sync.Mutex
	cb        api.TimerCallbacks
	bound     bool
	remaining int
	paused    bool
	stop      chan struct{}
}

// TimerOption customises an IntervalTimer.
type TimerOption func(*IntervalTimer)

// WithTickInterval overrides the one-second countdown granularity, mainly
// for tests.
func WithTickInterval(d time.Duration) TimerOption {
	return func(t *IntervalTimer) {
		if d > 0 {
			t.tick = d
		}
	}
}

func NewIntervalTimer(opts ...TimerOption) *IntervalTimer {
	t := &IntervalTimer{tick: time.Second}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bind wires the lifecycle callbacks. At least OnComplete must be set, since
// a timer nobody hears completing cannot drive a session.
func (t *IntervalTimer) Bind(cb api.TimerCallbacks) error {
	if cb.OnComplete == nil {
		return errNilCallbacks
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = cb
	t.bound = true
	return nil
}

// StartTimer begins a fresh countdown of the given seconds, cancelling any
// countdown already running.
func (t *IntervalTimer) StartTimer(seconds int) {
	t.mu.Lock()
	t.stopLocked()
	t.remaining = seconds
	t.paused = false
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()
	go t.run(stop)
}

// Stop cancels the countdown. Safe to call on a stopped timer.
func (t *IntervalTimer) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

// SetPaused freezes or resumes the countdown without resetting it and
// reports the toggle through OnPauseToggle.
func (t *IntervalTimer) SetPaused(paused bool) {
	t.mu.Lock()
	if t.paused == paused {
		t.mu.Unlock()
		return
	}
	t.paused = paused
	cb := t.cb
	t.mu.Unlock()
	if cb.OnPauseToggle != nil {
		cb.OnPauseToggle(paused)
	}
}

// ManualNext reports a user-initiated skip to the next section.
func (t *IntervalTimer) ManualNext() {
	t.mu.Lock()
	cb := t.cb
	t.mu.Unlock()
	if cb.OnManualNext != nil {
		cb.OnManualNext()
	}
}

// RequestExit reports a user-initiated session end.
func (t *IntervalTimer) RequestExit() {
	t.mu.Lock()
	cb := t.cb
	t.mu.Unlock()
	if cb.OnExit != nil {
		cb.OnExit()
	}
}

// Remaining returns the seconds left on the countdown.
func (t *IntervalTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *IntervalTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *IntervalTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		t.mu.Lock()
		if t.paused {
			t.mu.Unlock()
			continue
		}
		t.remaining--
		remaining := t.remaining
		cb := t.cb
		t.mu.Unlock()

		if cb.OnTick != nil {
			cb.OnTick(remaining)
		}
		if remaining <= 0 {
			if cb.OnComplete != nil {
				cb.OnComplete()
			}
			return
		}
	}
}

var _ api.SectionTimer = (*IntervalTimer)(nil)
