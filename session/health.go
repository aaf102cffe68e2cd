package session

import (
	"errors"

	"github.com/heptiolabs/healthcheck"
)

var (
	errDispatcherDown     = errors.New("event dispatcher disposed")
	errOrchestratorClosed = errors.New("orchestrator closed")
)

// HealthHandler exposes liveness and readiness checks over HTTP. Liveness
// covers the event dispatcher; readiness reports whether the orchestrator
// can still start sessions.
func (o *Orchestrator) HealthHandler() healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("event-dispatcher", func() error {
		if !o.events.alive() {
			return errDispatcherDown
		}
		return nil
	})
	h.AddReadinessCheck("orchestrator", func() error {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.closed {
			return errOrchestratorClosed
		}
		return nil
	})
	return h
}
