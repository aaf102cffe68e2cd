package api

// TimerCallbacks carries the orchestrator-side lifecycle hooks a SectionTimer
// invokes while counting down. Any hook may be nil. Implementations must not
// invoke hooks while holding internal locks; hooks re-enter the orchestrator.
type TimerCallbacks struct {
	// OnComplete fires once when the countdown reaches zero.
	OnComplete func()
	// OnTick fires on every countdown step with the seconds remaining.
	OnTick func(secondsLeft int)
	// OnPauseToggle fires when the timer itself pauses or resumes,
	// e.g. from a pause control in the timer's own UI.
	OnPauseToggle func(paused bool)
	// OnManualNext fires when the user skips ahead from the timer UI.
	OnManualNext func()
	// OnExit fires when the user ends the session from the timer UI.
	OnExit func()
}

// SectionTimer is the countdown abstraction driving section progression.
// The orchestrator wires its callbacks with Bind during session start, then
// restarts the countdown with StartTimer for each entered section. SetPaused
// freezes or resumes the countdown without resetting it.
type SectionTimer interface {
	Bind(cb TimerCallbacks) error
	StartTimer(seconds int)
	Stop()
	SetPaused(paused bool)
}
