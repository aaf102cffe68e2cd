package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stavekit/practice/api"
)

// WakeLockManager keeps the display awake for the duration of a session.
// Acquisition is best effort: an absent or failing provider downgrades the
// session to running without a lock. When the platform revokes the lock
// spontaneously, the manager arms a one-shot re-acquire that fires the next
// time the host becomes visible while a session is still active.
type WakeLockManager struct {
	provider   api.WakeLockProvider
	visibility api.VisibilitySignal
	active     func() bool
	metrics    *Metrics
	logger     zerolog.Logger

	mu               sync.Mutex
	lock             api.HeldLock
	watchStop        chan struct{}
	cancelVisibility func()

	unsupportedOnce sync.Once
}

func newWakeLockManager(provider api.WakeLockProvider, visibility api.VisibilitySignal, active func() bool, metrics *Metrics, logger zerolog.Logger) *WakeLockManager {
	return &WakeLockManager{
		provider:   provider,
		visibility: visibility,
		active:     active,
		metrics:    metrics,
		logger:     logger,
	}
}

// Acquire requests a display wake lock. On unsupported platforms it no-ops
// and logs once. Errors are returned for the caller's non-fatal guard.
func (w *WakeLockManager) Acquire(ctx context.Context) error {
	if w.provider == nil || !w.provider.Supported() {
		w.unsupportedOnce.Do(func() {
			w.logger.Info().Msg("wake lock not supported on this platform")
		})
		return nil
	}
	lock, err := w.provider.Request(ctx)
	if err != nil {
		w.metrics.WakeLockFailures.Inc()
		return fmt.Errorf("request wake lock: %w", err)
	}
	w.mu.Lock()
	w.stopWatchLocked()
	w.lock = lock
	stop := make(chan struct{})
	w.watchStop = stop
	w.mu.Unlock()
	go w.watch(lock, stop)
	w.logger.Debug().Msg("wake lock acquired")
	return nil
}

// Release drops the lock and detaches the visibility listener. Safe to call
// repeatedly and on a manager that never acquired.
func (w *WakeLockManager) Release() {
	w.mu.Lock()
	if w.cancelVisibility != nil {
		w.cancelVisibility()
		w.cancelVisibility = nil
	}
	w.stopWatchLocked()
	lock := w.lock
	w.lock = nil
	w.mu.Unlock()

	if lock != nil {
		if err := lock.Release(); err != nil {
			w.logger.Warn().Err(err).Msg("wake lock release failed")
		} else {
			w.logger.Debug().Msg("wake lock released")
		}
	}
}

// Held reports whether a lock is currently held.
func (w *WakeLockManager) Held() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lock != nil
}

func (w *WakeLockManager) stopWatchLocked() {
	if w.watchStop != nil {
		close(w.watchStop)
		w.watchStop = nil
	}
}

func (w *WakeLockManager) watch(lock api.HeldLock, stop chan struct{}) {
	select {
	case <-stop:
		return
	case <-lock.Released():
	}
	w.logger.Debug().Msg("wake lock revoked by platform")
	w.mu.Lock()
	if w.lock == lock {
		w.lock = nil
		w.watchStop = nil
	}
	w.mu.Unlock()
	w.armReacquire()
}

// armReacquire subscribes a one-shot visibility trigger: the next time the
// host becomes visible and a session is still active, the lock is requested
// again.
func (w *WakeLockManager) armReacquire() {
	if w.visibility == nil {
		return
	}
	var once sync.Once
	w.mu.Lock()
	if w.cancelVisibility != nil {
		w.cancelVisibility()
	}
	w.cancelVisibility = w.visibility.Subscribe(func(visible bool) {
		if !visible {
			return
		}
		once.Do(func() {
			w.mu.Lock()
			if w.cancelVisibility != nil {
				w.cancelVisibility()
				w.cancelVisibility = nil
			}
			w.mu.Unlock()
			if w.active != nil && !w.active() {
				return
			}
			if err := w.Acquire(context.Background()); err != nil {
				w.logger.Warn().Err(err).Msg("wake lock re-acquire failed")
			}
		})
	})
	w.mu.Unlock()
}
