package session

import (
	"github.com/rs/zerolog"

	"github.com/stavekit/practice/internal/log"
)

// runNonFatal executes a setup side effect that must never abort the
// surrounding transition. Errors and panics are logged at warn level and
// swallowed; a nil fn is a no-op.
func runNonFatal(logger zerolog.Logger, op string, fn func() error) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Str(log.FieldOp, op).Interface("panic", r).Msg("collaborator panicked, continuing")
		}
	}()
	if err := fn(); err != nil {
		logger.Warn().Str(log.FieldOp, op).Err(err).Msg("collaborator failed, continuing")
	}
}
