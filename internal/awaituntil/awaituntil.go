// Package awaituntil provides a bounded, time-boxed readiness poll for
// presentation-layer state that has no completion signal of its own.
package awaituntil

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errNotReady = errors.New("not ready")

// Poll invokes ready up to attempts times, interval apart, returning true as
// soon as ready reports success. It returns false on exhaustion or when ctx
// is cancelled between attempts; it never returns an error. The first attempt
// runs immediately.
func Poll(ctx context.Context, attempts uint64, interval time.Duration, ready func() bool) bool {
	if ready == nil || attempts == 0 {
		return false
	}
	ok := false
	op := func() error {
		if ready() {
			ok = true
			return nil
		}
		return errNotReady
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts-1),
		ctx,
	)
	_ = backoff.Retry(op, b)
	return ok
}
